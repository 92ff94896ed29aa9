package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"

	"route-backend/internal/models"
)

// SessionStore holds Microsoft token pairs keyed by opaque session id.
// Get returns nil (no error) when the session does not exist.
type SessionStore interface {
	Put(ctx context.Context, id string, session models.AuthSession) error
	Get(ctx context.Context, id string) (*models.AuthSession, error)
	Delete(ctx context.Context, id string) error
}

// StateStore tracks pending OAuth state values. Consume removes the value
// and reports whether it was present; each value can be consumed at most
// once, regardless of what happens to the login flow afterwards.
type StateStore interface {
	Add(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}

// NewOpaqueToken returns a 256-bit random value in URL-safe base64, used
// for both OAuth state values and session ids.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MemoryStore is the default single-instance backing for sessions and
// pending states. Entries live until process exit; there is no expiry
// sweep. Both maps are shared by concurrent requests, hence the mutex.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]models.AuthSession
	states   map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.AuthSession),
		states:   make(map[string]struct{}),
	}
}

func (s *MemoryStore) Put(_ context.Context, id string, session models.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.AuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Add(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = struct{}{}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[state]; !ok {
		return false, nil
	}
	delete(s.states, state)
	return true, nil
}
