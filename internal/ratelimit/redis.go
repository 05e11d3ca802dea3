// Package ratelimit implements a Redis-backed request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter counts requests per key. A key's counter expires one window
// after its most recent request.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter connects to Redis and verifies the connection
func NewRedisLimiter(addr string, limit int, window time.Duration) (*RedisLimiter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return NewWithClient(rdb, limit, window), nil
}

// NewWithClient wraps an existing Redis client
func NewWithClient(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow records a request for key and reports whether it is within the limit
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit pipeline failed: %w", err)
	}

	return incr.Val() <= int64(l.limit), nil
}

// Close closes the Redis connection
func (l *RedisLimiter) Close() error {
	return l.rdb.Close()
}
