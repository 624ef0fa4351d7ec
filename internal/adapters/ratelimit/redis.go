// Package ratelimit throttles public submissions with fixed-window counters kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clubevents/internal/domain"
)

const keyPrefix = "clubevents:ratelimit:"

// NewRedisClient parses url, configures the pool and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

type fixedWindow struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

// NewFixedWindow allows at most limit hits per key in each window. The window
// starts with the first hit on a key. INCR and TTL share one round trip.
func NewFixedWindow(client redis.Cmdable, limit int, window time.Duration) domain.RateLimiter {
	return &fixedWindow{client: client, limit: int64(limit), window: window}
}

func (f *fixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	k := keyPrefix + key
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := f.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		ttl = p.TTL(ctx, k)
		return nil
	}); err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	count := incr.Val()
	// A key without a TTL is either new or lost its EXPIRE to an earlier
	// failure; arm it on every such hit so the window can always close.
	if ttl.Val() < 0 {
		if err := f.client.Expire(ctx, k, f.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return count <= f.limit, nil
}
