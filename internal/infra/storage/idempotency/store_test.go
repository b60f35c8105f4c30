package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
)

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("ReserveFreshKey", func(t *testing.T) {
		id, reserved, err := store.Reserve(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, reserved)
		assert.Zero(t, id)
	})

	t.Run("SecondReserveIsInProgress", func(t *testing.T) {
		_, reserved, err := store.Reserve(ctx, "k1")
		assert.ErrorIs(t, err, ErrInProgress)
		assert.False(t, reserved)
	})

	t.Run("CompletedKeyReturnsID", func(t *testing.T) {
		require.NoError(t, store.Complete(ctx, "k1", 42))
		id, reserved, err := store.Reserve(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, reserved)
		assert.Equal(t, int64(42), id)
	})

	t.Run("ReleaseFreesKey", func(t *testing.T) {
		_, reserved, err := store.Reserve(ctx, "k2")
		require.NoError(t, err)
		require.True(t, reserved)

		require.NoError(t, store.Release(ctx, "k2"))
		_, reserved, err = store.Reserve(ctx, "k2")
		require.NoError(t, err)
		assert.True(t, reserved)
	})
}

func TestRedisStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	testStore(t, store)

	t.Run("KeyExpires", func(t *testing.T) {
		ctx := context.Background()
		_, reserved, err := store.Reserve(ctx, "ttl")
		require.NoError(t, err)
		require.True(t, reserved)

		s.FastForward(2 * time.Hour)
		_, reserved, err = store.Reserve(ctx, "ttl")
		require.NoError(t, err)
		assert.True(t, reserved)
	})

	t.Run("CorruptedValue", func(t *testing.T) {
		require.NoError(t, s.Set("venuecrm:idempotency:bad", "abc"))
		_, _, err := store.Reserve(context.Background(), "bad")
		assert.ErrorIs(t, err, ErrStore)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	testStore(t, store)

	t.Run("KeyExpires", func(t *testing.T) {
		now := time.Now()
		store.now = func() time.Time { return now }
		_, reserved, err := store.Reserve(context.Background(), "ttl")
		require.NoError(t, err)
		require.True(t, reserved)

		store.now = func() time.Time { return now.Add(2 * time.Hour) }
		_, reserved, err = store.Reserve(context.Background(), "ttl")
		require.NoError(t, err)
		assert.True(t, reserved)
	})
}

func TestFailoverStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()

	store := NewFailoverStore(NewRedisStore(client, time.Hour), NewMemoryStore(time.Hour), logger.NewNop())
	testStore(t, store)

	// Redis пропал: ключи продолжают работать через память
	s.Close()
	ctx := context.Background()
	_, reserved, err := store.Reserve(ctx, "after-outage")
	require.NoError(t, err)
	assert.True(t, reserved)

	_, _, err = store.Reserve(ctx, "after-outage")
	assert.ErrorIs(t, err, ErrInProgress)
}
