package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore enforces windows globally across instances using a shared
// Redis. Each bucket is one key: INCR counts it, a TTL set on first
// increment bounds the window.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix namespaces bucket keys (default "ratelimit").
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore constructs a RedisStore over an existing client.
func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: "ratelimit"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Incr implements Store. The INCR, NX expiry and TTL read run in one
// pipeline so the window boundary stays consistent under concurrency.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := s.prefix + ":" + key

	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.TTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// Key unexpectedly has no TTL; treat the window as starting now.
		remaining = window
	}
	return incr.Val(), time.Now().Add(remaining), nil
}
