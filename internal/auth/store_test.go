package auth

import (
	"context"
	"testing"
	"time"

	"route-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both backings must satisfy the same contract, so every case runs against
// the memory store and a miniredis-backed Redis store.
func eachStore(t *testing.T, run func(t *testing.T, sessions SessionStore, states StateStore)) {
	t.Run("memory", func(t *testing.T) {
		store := NewMemoryStore()
		run(t, store, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store := NewRedisStore(client, time.Hour)
		run(t, store, store)
	})
}

func TestSessionStorePutGetDelete(t *testing.T) {
	eachStore(t, func(t *testing.T, sessions SessionStore, _ StateStore) {
		ctx := context.Background()

		got, err := sessions.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)

		want := models.AuthSession{AccessToken: "ms-access", RefreshToken: "ms-refresh"}
		require.NoError(t, sessions.Put(ctx, "sid-1", want))

		got, err = sessions.Get(ctx, "sid-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)

		require.NoError(t, sessions.Delete(ctx, "sid-1"))
		got, err = sessions.Get(ctx, "sid-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStateStoreConsumeOnce(t *testing.T) {
	eachStore(t, func(t *testing.T, _ SessionStore, states StateStore) {
		ctx := context.Background()

		require.NoError(t, states.Add(ctx, "state-1"))

		ok, err := states.Consume(ctx, "state-1")
		require.NoError(t, err)
		assert.True(t, ok)

		// Second consumption of the same value always fails.
		ok, err = states.Consume(ctx, "state-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStateStoreUnknownState(t *testing.T) {
	eachStore(t, func(t *testing.T, _ SessionStore, states StateStore) {
		ok, err := states.Consume(context.Background(), "never-issued")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRedisSessionExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sid-1", models.AuthSession{AccessToken: "a"}))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
