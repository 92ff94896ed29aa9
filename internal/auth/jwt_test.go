package auth

import (
	"testing"
	"time"

	"route-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(lifetime time.Duration) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-signing-secret"
	cfg.JWT.TokenLifetime = lifetime
	return NewJWTManager(cfg)
}

func TestJWTRoundTrip(t *testing.T) {
	m := testManager(time.Hour)

	token, err := m.Generate("user-1", "session-abc")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "session-abc", claims.SessionID)
}

func TestJWTExpired(t *testing.T) {
	m := testManager(-time.Minute)

	token, err := m.Generate("user-1", "session-abc")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := testManager(time.Hour).Generate("user-1", "session-abc")
	require.NoError(t, err)

	other := &config.Config{}
	other.JWT.Secret = "a-different-secret"
	other.JWT.TokenLifetime = time.Hour

	_, err = NewJWTManager(other).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTGarbage(t *testing.T) {
	_, err := testManager(time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	b, err := NewOpaqueToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	// 32 random bytes in raw URL-safe base64.
	assert.Len(t, a, 43)
}
