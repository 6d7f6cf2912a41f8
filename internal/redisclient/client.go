package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxlate/voxlate/internal/config"
)

// NewOptional returns nil when no Redis URL is configured, letting the
// caller fall back to an in-memory session store.
func NewOptional(cfg config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		return nil
	}
	return New(cfg)
}

// New constructs a Redis client using the provided configuration.
func New(cfg config.RedisConfig) *redis.Client {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// ParseURL rejects bare host:port addresses, so fall back to direct options.
		opts = &redis.Options{
			Addr: cfg.URL,
		}
	}

	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	return redis.NewClient(opts)
}

// Ping verifies connectivity to Redis with a short timeout.
func Ping(ctx context.Context, client *redis.Client) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(timeoutCtx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
