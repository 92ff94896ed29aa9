package services

import (
	"context"
	"errors"
	"fmt"

	"route-backend/internal/auth"
	"route-backend/internal/models"
	"route-backend/internal/msgraph"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidState covers a state value that was never issued or was
// already consumed; the two are indistinguishable to the caller.
var ErrInvalidState = errors.New("invalid or already used state parameter")

// ErrSessionExpired means the internal token verified but its session no
// longer resolves (process restarted, store expired, or manual eviction).
var ErrSessionExpired = errors.New("session expired or invalid")

// AuthService runs the delegated login flow and gates every drive call:
// internal token in, Microsoft access token out.
type AuthService struct {
	graph      *msgraph.Client
	jwtManager *auth.JWTManager
	sessions   auth.SessionStore
	states     auth.StateStore
}

func NewAuthService(graph *msgraph.Client, jwtManager *auth.JWTManager, sessions auth.SessionStore, states auth.StateStore) *AuthService {
	return &AuthService{
		graph:      graph,
		jwtManager: jwtManager,
		sessions:   sessions,
		states:     states,
	}
}

// BeginLogin records a fresh random state value as pending and returns the
// provider authorization URL carrying it.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	state, err := auth.NewOpaqueToken()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	if err := s.states.Add(ctx, state); err != nil {
		return "", fmt.Errorf("record pending state: %w", err)
	}
	return s.graph.AuthCodeURL(state), nil
}

// CompleteLogin validates and consumes the state (single use, even if the
// exchange afterwards fails), trades the code for a Microsoft token pair,
// stores the pair in a new session, and issues the internal access token
// referencing that session.
func (s *AuthService) CompleteLogin(ctx context.Context, code, state string) (string, error) {
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", fmt.Errorf("consume state: %w", err)
	}
	if !ok {
		return "", ErrInvalidState
	}

	pair, err := s.graph.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	sessionID, err := auth.NewOpaqueToken()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	if err := s.sessions.Put(ctx, sessionID, models.AuthSession{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return s.jwtManager.Generate(subjectFromIDToken(pair.IDToken), sessionID)
}

// ResolveExternalToken verifies the internal token and resolves its session
// to the stored Microsoft access token. Every drive operation passes
// through here.
func (s *AuthService) ResolveExternalToken(ctx context.Context, internalToken string) (string, error) {
	claims, err := s.jwtManager.Verify(internalToken)
	if err != nil {
		return "", err
	}
	if claims.SessionID == "" {
		return "", auth.ErrInvalidToken
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return "", fmt.Errorf("look up session: %w", err)
	}
	if session == nil {
		return "", ErrSessionExpired
	}
	return session.AccessToken, nil
}

// RefreshExternalToken runs the provider refresh grant. A rejected refresh
// token is not recovered here; the interactive flow must be restarted.
func (s *AuthService) RefreshExternalToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return s.graph.Refresh(ctx, refreshToken)
}

// subjectFromIDToken pulls the provider object id out of the id_token
// without verifying it (the token came straight off our own TLS exchange;
// it only feeds the informational subject claim).
func subjectFromIDToken(idToken string) string {
	if idToken == "" {
		return "user"
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "user"
	}
	if oid, ok := claims["oid"].(string); ok && oid != "" {
		return oid
	}
	return "user"
}
