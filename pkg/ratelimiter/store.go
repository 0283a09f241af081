package ratelimiter

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Store keeps bucket state. ConsumeTokens takes tokens from key's bucket and
// reports what is left; a negative remainder means the request is denied.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// NewStore builds the store selected by cfg.Store. client may be nil unless
// the redis store is selected.
func NewStore(cfg Config, client redis.Cmdable, clk clock.Clock) (Store, error) {
	switch cfg.Store {
	case "", StoreMemory:
		return NewMemoryStore(cfg.MaxKeys, WithStoreClock(clk)), nil
	case StoreRedis:
		if client == nil {
			return nil, ErrUnknownStore
		}
		return NewRedisStore(client, WithStoreClock(clk)), nil
	default:
		return nil, ErrUnknownStore
	}
}

// StoreOption configures the bundled stores.
type StoreOption func(*storeOptions)

type storeOptions struct {
	clock clock.Clock
}

func WithStoreClock(clk clock.Clock) StoreOption {
	return func(o *storeOptions) {
		if clk != nil {
			o.clock = clk
		}
	}
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{clock: clock.New()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
