package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is applied to every entry unless overridden (24 hours).
const DefaultTTL = 86400 * time.Second

// RedisCache is a Redis-backed Cache. SETEX is atomic per key and Redis
// expires entries server-side, so no in-process state is needed.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis at addr and validates the connection.
// A non-positive ttl falls back to DefaultTTL.
func NewRedisCache(addr string, ttl time.Duration) (*RedisCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached answer verbatim if present and unexpired.
func (c *RedisCache) Get(ctx context.Context, query string) (string, bool, error) {
	value, err := c.client.Get(ctx, Key(query)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return value, true, nil
}

// Set stores the answer under the normalized key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, query, answer string) error {
	if err := c.client.Set(ctx, Key(query), answer, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Health verifies Redis connectivity.
func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
