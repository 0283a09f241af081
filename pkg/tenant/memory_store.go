package tenant

import (
	"context"
	"sync"
)

// MemoryStore is a Store backed by a map. It serves tests and the demo mode
// where no database is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	orgs map[string]Organization
}

func NewMemoryStore(orgs ...Organization) *MemoryStore {
	s := &MemoryStore{orgs: make(map[string]Organization, len(orgs))}
	for _, o := range orgs {
		s.orgs[o.Subdomain] = o
	}
	return s
}

// Put adds or replaces an organization.
func (s *MemoryStore) Put(o Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[o.Subdomain] = o
}

func (s *MemoryStore) FindBySubdomain(ctx context.Context, subdomain string) (*Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orgs[subdomain]
	if !ok {
		return nil, ErrOrganizationNotFound
	}
	return &o, nil
}
