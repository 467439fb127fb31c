// Package redis owns the process-wide redis client lifecycle. The client is
// constructed explicitly by the CLI entry point and injected into consumers;
// there are no import-time side effects.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"prepwise/internal/shared/config"
)

// NewClient creates and verifies a redis client from configuration.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
