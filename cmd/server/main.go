package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"route-backend/internal/auth"
	"route-backend/internal/config"
	"route-backend/internal/database"
	"route-backend/internal/db"
	"route-backend/internal/handlers"
	"route-backend/internal/health"
	h "route-backend/internal/http"
	"route-backend/internal/middleware"
	"route-backend/internal/msgraph"
	"route-backend/internal/repositories"
	"route-backend/internal/services"
	"route-backend/migrations"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load .env before viper reads the environment
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to database and run migrations
	pool := db.Connect(cfg)
	defer pool.Close()

	if err := database.NewMigrator(pool, migrations.FS).Run(context.Background()); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	// Session and state stores: in-memory by default, Redis when sessions
	// must survive restarts
	var sessions auth.SessionStore
	var states auth.StateStore
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		store := auth.NewRedisStore(client, cfg.JWT.TokenLifetime)
		sessions, states = store, store
		log.Println("Using Redis session store")
	default:
		store := auth.NewMemoryStore()
		sessions, states = store, store
		log.Println("Using in-memory session store")
	}

	// Initialize JWT manager and Graph client
	jwtManager := auth.NewJWTManager(cfg)
	graph := msgraph.NewClient(cfg)

	// Initialize repositories
	customerRepo := repositories.NewCustomerRepository(pool)
	visitRepo := repositories.NewVisitRepository(pool)

	// Initialize services
	authService := services.NewAuthService(graph, jwtManager, sessions, states)
	customerService := services.NewCustomerService(customerRepo, visitRepo)
	visitService := services.NewVisitService(visitRepo, customerRepo)
	syncService := services.NewSyncService(customerRepo, visitRepo, authService, graph, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	customerHandler := handlers.NewCustomerHandler(customerService)
	visitHandler := handlers.NewVisitHandler(visitService)
	syncHandler := handlers.NewSyncHandler(syncService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	// Create router
	router := h.NewRouter(authHandler, customerHandler, visitHandler, syncHandler, healthHandler)
	corsMiddleware := middleware.NewCORS(cfg)
	handler := corsMiddleware(router)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
