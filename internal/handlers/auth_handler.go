package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"route-backend/internal/config"
	"route-backend/internal/models"
	"route-backend/internal/services"
)

type AuthHandler struct {
	Service     *services.AuthService
	frontendURL string
}

func NewAuthHandler(service *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Service: service, frontendURL: cfg.Frontend.URL}
}

// Login starts the delegated login flow and hands the authorization URL to
// the frontend, which performs the actual redirect.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.Service.BeginLogin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.LoginResponse{AuthURL: authURL})
}

// Callback receives the provider redirect, finishes the code exchange and
// forwards the browser to the frontend with the internal token.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
		return
	}

	token, err := h.Service.CompleteLogin(r.Context(), code, state)
	if err != nil {
		writeError(w, err)
		return
	}

	redirect := h.frontendURL + "/auth/success?token=" + url.QueryEscape(token)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// Refresh runs the provider refresh grant with a client-held refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "refresh_token is required", http.StatusBadRequest)
		return
	}

	pair, err := h.Service.RefreshExternalToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.RefreshResponse{
		AccessToken:    pair.AccessToken,
		TokenType:      pair.TokenType,
		MicrosoftToken: pair,
	})
}
