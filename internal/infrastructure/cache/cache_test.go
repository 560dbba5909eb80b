package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/repairpos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	defer c.Close()
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	t.Run("miss", func(t *testing.T) {
		var got summary
		ok, err := c.Get(ctx, "missing", &got)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hit until the ttl passes", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "dashboard:t1:all", summary{Count: 3, Total: "120.00"}, time.Minute))

		var got summary
		ok, err := c.Get(ctx, "dashboard:t1:all", &got)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, summary{Count: 3, Total: "120.00"}, got)

		now = now.Add(time.Minute)
		ok, err = c.Get(ctx, "dashboard:t1:all", &got)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cleanup drops expired entries", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", summary{}, time.Second))
		require.NoError(t, c.Set(ctx, "long", summary{}, time.Hour))
		now = now.Add(2 * time.Second)
		c.cleanup()
		var got summary
		ok, _ := c.Get(ctx, "long", &got)
		assert.True(t, ok)
		ok, _ = c.Get(ctx, "short", &got)
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		other := NewMemoryCache(0)
		assert.NoError(t, other.Close())
		assert.NoError(t, other.Close())
	})
}

// Runs against a real Redis when REDIS_TEST_HOST is set
func TestRedisCache(t *testing.T) {
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, config.RedisConfig{Host: host, Port: 6379})
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisCache(client, "repairpos:test:")
	require.NoError(t, c.Set(ctx, "k", summary{Count: 1}, time.Minute))
	var got summary
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, got.Count)

	ok, err = c.Get(ctx, "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
