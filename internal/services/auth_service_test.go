package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"route-backend/internal/auth"
	"route-backend/internal/config"
	"route-backend/internal/msgraph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, tokenHandler http.HandlerFunc) (*AuthService, *auth.MemoryStore, *auth.JWTManager) {
	t.Helper()

	srv := httptest.NewServer(tokenHandler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TokenLifetime = time.Hour
	cfg.Microsoft = config.MicrosoftConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Authority:    srv.URL,
		RedirectURI:  "http://localhost:8000/auth/callback",
		Scopes:       []string{"Files.ReadWrite.All", "offline_access"},
		GraphBaseURL: srv.URL,
	}

	store := auth.NewMemoryStore()
	jwtManager := auth.NewJWTManager(cfg)
	return NewAuthService(msgraph.NewClient(cfg), jwtManager, store, store), store, jwtManager
}

func tokenOK(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte(`{"access_token":"ms-access","refresh_token":"ms-refresh","expires_in":3600}`))
}

func tokenRejected(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte(`{"error":"invalid_grant","error_description":"bad code"}`))
}

func stateFromAuthURL(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestBeginLoginIssuesPendingState(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenOK)
	ctx := context.Background()

	authURL, err := svc.BeginLogin(ctx)
	require.NoError(t, err)

	state := stateFromAuthURL(t, authURL)
	token, err := svc.CompleteLogin(ctx, "the-code", state)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestCompleteLoginUnknownState(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenOK)

	_, err := svc.CompleteLogin(context.Background(), "the-code", "forged-state")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCompleteLoginStateConsumedOnce(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenOK)
	ctx := context.Background()

	authURL, err := svc.BeginLogin(ctx)
	require.NoError(t, err)
	state := stateFromAuthURL(t, authURL)

	_, err = svc.CompleteLogin(ctx, "the-code", state)
	require.NoError(t, err)

	// Replaying the same state always fails, whatever happened first time.
	_, err = svc.CompleteLogin(ctx, "the-code", state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCompleteLoginStateConsumedEvenWhenExchangeFails(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenRejected)
	ctx := context.Background()

	authURL, err := svc.BeginLogin(ctx)
	require.NoError(t, err)
	state := stateFromAuthURL(t, authURL)

	_, err = svc.CompleteLogin(ctx, "bad-code", state)
	var authErr *msgraph.AuthError
	require.ErrorAs(t, err, &authErr)

	// The failed exchange must not leave the state reusable.
	_, err = svc.CompleteLogin(ctx, "bad-code", state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestResolveExternalToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenOK)
	ctx := context.Background()

	authURL, err := svc.BeginLogin(ctx)
	require.NoError(t, err)
	token, err := svc.CompleteLogin(ctx, "the-code", stateFromAuthURL(t, authURL))
	require.NoError(t, err)

	msToken, err := svc.ResolveExternalToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ms-access", msToken)
}

func TestResolveExternalTokenInvalid(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenOK)

	_, err := svc.ResolveExternalToken(context.Background(), "garbage.token.value")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResolveExternalTokenExpired(t *testing.T) {
	svc, _, jwtManager := newTestAuthService(t, tokenOK)

	// Structurally valid but expired token: same secret, negative lifetime.
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TokenLifetime = -time.Minute
	expired, err := auth.NewJWTManager(cfg).Generate("user", "sid-1")
	require.NoError(t, err)

	_, err = jwtManager.Verify(expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.ResolveExternalToken(context.Background(), expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResolveExternalTokenEvictedSession(t *testing.T) {
	svc, store, jwtManager := newTestAuthService(t, tokenOK)
	ctx := context.Background()

	authURL, err := svc.BeginLogin(ctx)
	require.NoError(t, err)
	token, err := svc.CompleteLogin(ctx, "the-code", stateFromAuthURL(t, authURL))
	require.NoError(t, err)

	// Evict the session, simulating a process restart.
	claims, err := jwtManager.Verify(token)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, claims.SessionID))

	_, err = svc.ResolveExternalToken(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestResolveExternalTokenWithoutSessionReference(t *testing.T) {
	svc, _, jwtManager := newTestAuthService(t, tokenOK)

	token, err := jwtManager.Generate("user", "")
	require.NoError(t, err)

	_, err = svc.ResolveExternalToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshExternalTokenRejected(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenRejected)

	_, err := svc.RefreshExternalToken(context.Background(), "revoked-refresh")
	var authErr *msgraph.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestInternalTokenNeverEmbedsProviderTokens(t *testing.T) {
	svc, _, _ := newTestAuthService(t, tokenOK)
	ctx := context.Background()

	authURL, err := svc.BeginLogin(ctx)
	require.NoError(t, err)
	token, err := svc.CompleteLogin(ctx, "the-code", stateFromAuthURL(t, authURL))
	require.NoError(t, err)

	// The JWT references the session; the Microsoft pair stays server-side.
	assert.NotContains(t, token, "ms-access")
	assert.NotContains(t, token, "ms-refresh")
}
