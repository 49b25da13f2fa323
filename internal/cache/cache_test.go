package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c, err := NewMemoryCache(1<<20, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheJSON(t *testing.T) {
	c, err := NewMemoryCache(1<<20, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	in := map[string]int{"volume": 42}
	require.NoError(t, c.SetJSON(ctx, "json", in, 0))

	var out map[string]int
	require.NoError(t, c.GetJSON(ctx, "json", &out))
	assert.Equal(t, in, out)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx := context.Background()
	c, err := NewRedisCache(ctx, mr.Addr(), "aelys", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// Keys are namespaced by the prefix.
	assert.True(t, mr.Exists("aelys:k"))

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCacheTTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	ctx := context.Background()
	c, err := NewRedisCache(ctx, mr.Addr(), "", 0)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetJSON(ctx, "insight", map[string]string{"a": "b"}, InsightTTL))
	mr.FastForward(InsightTTL + time.Second)

	var out map[string]string
	assert.ErrorIs(t, c.GetJSON(ctx, "insight", &out), ErrNotFound)
}
