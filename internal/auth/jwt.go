package auth

import (
	"errors"
	"time"

	"route-backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure (bad signature,
// malformed token, expired claim) uniformly so callers cannot tell which
// check rejected the token.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the internal access token payload. It carries a subject and a
// session reference only; the Microsoft token pair stays server-side.
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies internal access tokens with a symmetric
// secret held only by this process.
type JWTManager struct {
	secret   []byte
	lifetime time.Duration
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret:   []byte(cfg.JWT.Secret),
		lifetime: cfg.JWT.TokenLifetime,
	}
}

// Generate issues a signed token for the subject referencing sessionID.
func (m *JWTManager) Generate(subject, sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token, returning its claims.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Lifetime returns the configured token lifetime.
func (m *JWTManager) Lifetime() time.Duration {
	return m.lifetime
}
