package handlers

import (
	"errors"
	"net/http"

	"route-backend/internal/auth"
	"route-backend/internal/excel"
	"route-backend/internal/msgraph"
	"route-backend/internal/services"
)

// writeError maps service and upstream errors to HTTP statuses. Unknown
// errors become a 500 with a generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrInvalidFileType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, services.ErrSessionExpired):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrVisitNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		var schemaErr *excel.SchemaMismatchError
		var authErr *msgraph.AuthError
		var notFoundErr *msgraph.NotFoundError
		var upstreamErr *msgraph.UpstreamError
		switch {
		case errors.As(err, &schemaErr):
			http.Error(w, schemaErr.Error(), http.StatusBadRequest)
		case errors.As(err, &authErr):
			// The Microsoft token was rejected; the client has to
			// refresh or log in again.
			http.Error(w, authErr.Error(), http.StatusUnauthorized)
		case errors.As(err, &notFoundErr):
			http.Error(w, notFoundErr.Error(), http.StatusNotFound)
		case errors.As(err, &upstreamErr):
			http.Error(w, upstreamErr.Error(), http.StatusBadGateway)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
