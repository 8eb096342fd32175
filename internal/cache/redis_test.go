//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestCache connects to a local Redis, skipping when unavailable.
func setupTestCache(t *testing.T, ttl time.Duration) *RedisCache {
	c, err := NewRedisCache("localhost:6379", ttl)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := setupTestCache(t, time.Minute)
	ctx := context.Background()

	query := "integration test query " + time.Now().String()

	_, ok, err := c.Get(ctx, query)
	require.NoError(t, err)
	assert.False(t, ok, "fresh query must miss")

	require.NoError(t, c.Set(ctx, query, "the answer"))

	answer, ok, err := c.Get(ctx, query)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "the answer", answer)

	// Normalized variants resolve to the same entry.
	variant, ok, err := c.Get(ctx, "  "+query+"  ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "the answer", variant)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c := setupTestCache(t, time.Second)
	ctx := context.Background()

	query := "expiring query " + time.Now().String()
	require.NoError(t, c.Set(ctx, query, "short-lived"))

	time.Sleep(1500 * time.Millisecond)

	_, ok, err := c.Get(ctx, query)
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after the TTL")
}
