package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces a cooldown per key using Redis SET NX with a TTL.
// A Limiter without a client allows everything.
type Limiter struct {
	rdb    *redis.Client
	prefix string
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb, prefix: "rate_limit"}
}

// Connect parses a redis:// URL and pings the server. An empty URL yields
// a nil client.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (l *Limiter) key(action, subject string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, action, subject)
}

// Allow reports whether action may run for subject, starting a cooldown of
// window when it does.
func (l *Limiter) Allow(ctx context.Context, action, subject string, window time.Duration) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, l.key(action, subject), "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	return wasSet, nil
}

// Remaining returns how long the cooldown for subject still lasts.
func (l *Limiter) Remaining(ctx context.Context, action, subject string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	ttl, err := l.rdb.TTL(ctx, l.key(action, subject)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (l *Limiter) Clear(ctx context.Context, action, subject string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, l.key(action, subject)).Err()
}
