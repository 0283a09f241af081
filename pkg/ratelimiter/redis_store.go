package ratelimiter

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore shares limits between replicas. It approximates the token
// bucket with a fixed window: Capacity tokens per full-refill period,
// counted with INCRBY and expired with EXPIRE NX in one transaction.
// Denied requests still count toward the window.
type RedisStore struct {
	client redis.Cmdable
	clock  clock.Clock
}

func NewRedisStore(client redis.Cmdable, opts ...StoreOption) *RedisStore {
	o := applyStoreOptions(opts)
	return &RedisStore{client: client, clock: o.clock}
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	k := redisKeyPrefix + key
	window := cfg.fullRefill()

	var (
		used *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		used = p.IncrBy(ctx, k, int64(tokens))
		p.ExpireNX(ctx, k, window)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	left := ttl.Val()
	if left <= 0 {
		left = window
	}
	return cfg.Capacity - int(used.Val()), s.clock.Now().Add(left), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
