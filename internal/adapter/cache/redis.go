// Package cache holds the Redis-backed run limiter.
package cache

import (
	"context"
	"fmt"
	"time"

	"meddiary/internal/domain"
	"meddiary/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements domain.RunLimiter with SET NX.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedis creates a limiter on top of client.
func NewRedis(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

var _ domain.RunLimiter = (*RedisLimiter)(nil)

// Acquire sets key if it is not already present. The key expires after ttl.
func (l *RedisLimiter) Acquire(ctx context.Context, key string, ttl time.Duration) (ok bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveNetworkRequest("redis", "setnx", start, err) }()

	ok, err = l.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

// Ping reports whether Redis is reachable.
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
