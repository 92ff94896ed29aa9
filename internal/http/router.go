package http

import (
	"net/http"

	"route-backend/internal/handlers"
	"route-backend/internal/metrics"
	"route-backend/internal/middleware"

	"github.com/gorilla/mux"
)

// NewRouter wires all endpoints. Auth endpoints sit outside /api because
// the provider redirect URI points at /auth/callback directly.
func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	visitHandler *handlers.VisitHandler,
	syncHandler *handlers.SyncHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestLogger)
	r.Use(metrics.Middleware)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/health/system", healthHandler.System).Methods(http.MethodGet)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.AuthRateLimiter.Middleware)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodGet)
	auth.HandleFunc("/callback", authHandler.Callback).Methods(http.MethodGet)
	auth.HandleFunc("/refresh", authHandler.Refresh).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.APIRateLimiter.Middleware)

	api.HandleFunc("/customers", customerHandler.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/stats/weeks", customerHandler.GetWeekStats).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", customerHandler.GetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", customerHandler.DeleteCustomer).Methods(http.MethodDelete)

	api.HandleFunc("/customers/{id:[0-9]+}/visits", visitHandler.CreateVisit).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id:[0-9]+}/visits", visitHandler.ListVisits).Methods(http.MethodGet)
	api.HandleFunc("/visits", visitHandler.ListAllVisits).Methods(http.MethodGet)
	api.HandleFunc("/visits/{id:[0-9]+}", visitHandler.UpdateVisit).Methods(http.MethodPut)
	api.HandleFunc("/visits/{id:[0-9]+}", visitHandler.DeleteVisit).Methods(http.MethodDelete)

	api.HandleFunc("/sync/import", syncHandler.ImportFromDrive).Methods(http.MethodPost)
	api.HandleFunc("/sync/export", syncHandler.ExportToDrive).Methods(http.MethodPost)
	api.HandleFunc("/sync/upload", syncHandler.Upload).Methods(http.MethodPost)
	api.HandleFunc("/sync/download", syncHandler.Download).Methods(http.MethodGet)
	api.HandleFunc("/sync/status", syncHandler.Status).Methods(http.MethodGet)

	return r
}
