package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"prepwise/internal/shared/logger"
)

const (
	keyPrefix      = "prepwise:"
	trackedSetFmt  = "prepwise:user:%s:keys"
	trackedSetTTL  = 24 * time.Hour
	invalidateSize = 128
)

// RedisStore implements Store on a redis client. Tracked keys use a
// per-owner set so invalidation never needs SCAN or pattern deletion.
type RedisStore struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisStore(client *redis.Client, logger logger.Interface) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

func (s *RedisStore) TrackKey(ctx context.Context, ownerID, key string) error {
	setKey := fmt.Sprintf(trackedSetFmt, ownerID)

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, setKey, key)
	pipe.Expire(ctx, setKey, trackedSetTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to track cache key for user %s: %w", ownerID, err)
	}
	return nil
}

func (s *RedisStore) InvalidateOwner(ctx context.Context, ownerID string) error {
	setKey := fmt.Sprintf(trackedSetFmt, ownerID)

	keys, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read tracked keys for user %s: %w", ownerID, err)
	}

	toDelete := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		toDelete = append(toDelete, keyPrefix+k)
	}
	toDelete = append(toDelete, setKey)

	// Delete in chunks; a long-lived user can accumulate many entries.
	for start := 0; start < len(toDelete); start += invalidateSize {
		end := min(start+invalidateSize, len(toDelete))
		if err := s.client.Del(ctx, toDelete[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache for user %s: %w", ownerID, err)
		}
	}

	s.logger.Debugw("user cache invalidated",
		"user_id", ownerID,
		"keys", len(keys),
	)

	return nil
}
