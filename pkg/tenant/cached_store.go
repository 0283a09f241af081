package tenant

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/fieldhub/pkg/cache"
)

// CachedStore keeps found organizations in a bounded TTL cache in front of
// another Store. Misses and errors are never cached, so a newly created
// organization becomes visible on the next request and a transient database
// failure does not pin the fallback name.
type CachedStore struct {
	next  Store
	cache *cache.LRU[string, Organization]
}

func NewCachedStore(next Store, ttl time.Duration, size int, clk clock.Clock) *CachedStore {
	if clk == nil {
		clk = clock.New()
	}
	return &CachedStore{
		next: next,
		cache: cache.New(max(size, 1),
			cache.WithTTL[string, Organization](ttl),
			cache.WithClock[string, Organization](clk),
		),
	}
}

func (s *CachedStore) FindBySubdomain(ctx context.Context, subdomain string) (*Organization, error) {
	if o, ok := s.cache.Get(subdomain); ok {
		return &o, nil
	}

	o, err := s.next.FindBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	s.cache.Set(subdomain, *o)
	return o, nil
}

// Invalidate drops a cached organization, for example after a rename.
func (s *CachedStore) Invalidate(subdomain string) {
	s.cache.Delete(subdomain)
}
