package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestAllowCooldown(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "forgot-password", "a@nitc.ac.in", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "forgot-password", "a@nitc.ac.in", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second call inside the window must be refused")

	ok, err = limiter.Allow(ctx, "forgot-password", "b@nitc.ac.in", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "other subjects are independent")

	remaining, err := limiter.Remaining(ctx, "forgot-password", "a@nitc.ac.in")
	require.NoError(t, err)
	assert.Greater(t, remaining, time.Duration(0))

	mr.FastForward(2 * time.Minute)
	ok, err = limiter.Allow(ctx, "forgot-password", "a@nitc.ac.in", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "window expired")
}

func TestClear(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "register", "x", time.Hour)
	require.NoError(t, err)
	require.NoError(t, limiter.Clear(ctx, "register", "x"))

	ok, err := limiter.Allow(ctx, "register", "x", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNilClientAllowsEverything(t *testing.T) {
	limiter := New(nil)
	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(context.Background(), "forgot-password", "x", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "forgot-password", "x", time.Minute)
	assert.Error(t, err)
}
