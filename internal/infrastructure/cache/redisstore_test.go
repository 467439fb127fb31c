package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepwise/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, logger.NewLogger())
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "subjects:active", []byte(`["algebra"]`), time.Minute))

	val, ok, err := store.Get(ctx, "subjects:active")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["algebra"]`, string(val))

	require.NoError(t, store.Delete(ctx, "subjects:active"))

	_, ok, err = store.Get(ctx, "subjects:active")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_TrackedKeyInvalidation(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user:u1:subscription", []byte(`{}`), time.Minute))
	require.NoError(t, store.Set(ctx, "user:u1:mastery:subj_1", []byte(`{}`), time.Minute))
	require.NoError(t, store.Set(ctx, "user:u2:subscription", []byte(`{}`), time.Minute))

	require.NoError(t, store.TrackKey(ctx, "u1", "user:u1:subscription"))
	require.NoError(t, store.TrackKey(ctx, "u1", "user:u1:mastery:subj_1"))
	require.NoError(t, store.TrackKey(ctx, "u2", "user:u2:subscription"))

	require.NoError(t, store.InvalidateOwner(ctx, "u1"))

	_, ok, err := store.Get(ctx, "user:u1:subscription")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, "user:u1:mastery:subj_1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other users' entries stay untouched.
	_, ok, err = store.Get(ctx, "user:u2:subscription")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_InvalidateOwnerWithNoTrackedKeys(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, logger.NewLogger())

	assert.NoError(t, store.InvalidateOwner(context.Background(), "unknown"))
}
