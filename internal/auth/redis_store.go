package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"route-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "route:session:"
	stateKeyPrefix   = "route:oauth_state:"

	// Pending states only need to survive the browser round trip.
	stateTTL = 10 * time.Minute
)

// RedisStore backs sessions and pending states with Redis so sessions
// survive process restarts. Session entries expire with the internal
// token lifetime; an expired session surfaces as SessionExpired upstream.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisStore(client *redis.Client, sessionTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, sessionTTL: sessionTTL}
}

func (s *RedisStore) Put(ctx context.Context, id string, session models.AuthSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+id, data, s.sessionTTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.AuthSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *RedisStore) Add(ctx context.Context, state string) error {
	return s.client.Set(ctx, stateKeyPrefix+state, "1", stateTTL).Err()
}

// Consume deletes the state atomically so a replayed value cannot win a
// race against its first use.
func (s *RedisStore) Consume(ctx context.Context, state string) (bool, error) {
	_, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
