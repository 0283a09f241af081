package ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/fieldhub/pkg/cache"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore keeps token buckets in a bounded LRU. A bucket expires once it
// would have refilled completely, so idle clients cost nothing.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	buckets *cache.LRU[string, *bucket]
}

func NewMemoryStore(maxKeys int, opts ...StoreOption) *MemoryStore {
	o := applyStoreOptions(opts)
	return &MemoryStore{
		clock:   o.clock,
		buckets: cache.New(max(maxKeys, 1), cache.WithClock[string, *bucket](o.clock)),
	}
}

// ConsumeTokens refills the bucket for the elapsed intervals and takes tokens
// from it. Denied requests do not drain the bucket further.
func (s *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	b, ok := s.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
	}

	// capped so a long idle period cannot overflow
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * cfg.RefillInterval)
		if b.tokens == cfg.Capacity {
			b.lastRefill = now
		}
	}

	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}
	s.buckets.SetWithTTL(key, b, cfg.fullRefill())

	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets.Delete(key)
	return nil
}
