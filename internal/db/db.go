package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"route-backend/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool against the configured database.
// Fails fast: a backend that cannot reach Postgres has nothing to serve.
func Connect(cfg *config.Config) *pgxpool.Pool {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}
	poolCfg.MaxConns = 10

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database %s@%s:%d: %v",
			cfg.Database.Name, cfg.Database.Host, cfg.Database.Port, err)
	}

	log.Printf("Connected to database %s@%s:%d", cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)
	return pool
}
