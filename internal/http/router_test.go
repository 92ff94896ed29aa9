package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"route-backend/internal/config"
	"route-backend/internal/handlers"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *mux.Router {
	cfg := &config.Config{}
	return NewRouter(
		handlers.NewAuthHandler(nil, cfg),
		handlers.NewCustomerHandler(nil),
		handlers.NewVisitHandler(nil),
		handlers.NewSyncHandler(nil),
		handlers.NewHealthHandler(nil),
	)
}

func TestRouterRegistersAllEndpoints(t *testing.T) {
	router := newTestRouter()

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/health/system"},
		{http.MethodGet, "/metrics"},
		{http.MethodGet, "/auth/login"},
		{http.MethodGet, "/auth/callback"},
		{http.MethodPost, "/auth/refresh"},
		{http.MethodGet, "/api/customers"},
		{http.MethodGet, "/api/customers/stats/weeks"},
		{http.MethodGet, "/api/customers/7"},
		{http.MethodDelete, "/api/customers/7"},
		{http.MethodPost, "/api/customers/7/visits"},
		{http.MethodGet, "/api/customers/7/visits"},
		{http.MethodGet, "/api/visits"},
		{http.MethodPut, "/api/visits/3"},
		{http.MethodDelete, "/api/visits/3"},
		{http.MethodPost, "/api/sync/import"},
		{http.MethodPost, "/api/sync/export"},
		{http.MethodPost, "/api/sync/upload"},
		{http.MethodGet, "/api/sync/download"},
		{http.MethodGet, "/api/sync/status"},
	}

	for _, e := range endpoints {
		req := httptest.NewRequest(e.method, e.path, nil)
		var match mux.RouteMatch
		assert.True(t, router.Match(req, &match), "%s %s should be routed", e.method, e.path)
		assert.NoError(t, match.MatchErr, "%s %s", e.method, e.path)
	}
}

func TestRouterRejectsUnknownMethods(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPatch, "/api/visits/3", nil)
	var match mux.RouteMatch
	router.Match(req, &match)
	assert.ErrorIs(t, match.MatchErr, mux.ErrMethodMismatch)
}
