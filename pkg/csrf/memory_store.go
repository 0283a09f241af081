package csrf

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/fieldhub/pkg/cache"
)

// MemoryStore keeps tokens in a bounded in-process LRU. Tokens do not survive
// restarts and are not shared between replicas.
type MemoryStore struct {
	mu     sync.Mutex
	clock  clock.Clock
	tokens *cache.LRU[string, Token]
}

func NewMemoryStore(capacity int, clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.New()
	}
	return &MemoryStore{
		clock:  clk,
		tokens: cache.New(max(capacity, 1), cache.WithClock[string, Token](clk)),
	}
}

// GetOrCreate keeps the live token for binding but never lets it expire
// before candidate would.
func (s *MemoryStore) GetOrCreate(ctx context.Context, binding string, candidate Token) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !candidate.ExpiresAt.After(now) {
		return candidate, nil
	}

	tok, ok := s.tokens.Get(binding)
	switch {
	case !ok:
		tok = candidate
	case tok.ExpiresAt.Before(candidate.ExpiresAt):
		tok.ExpiresAt = candidate.ExpiresAt
	default:
		return tok, nil
	}
	s.tokens.SetWithTTL(binding, tok, tok.ExpiresAt.Sub(now))
	return tok, nil
}

func (s *MemoryStore) Get(ctx context.Context, binding string) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	tok, ok := s.tokens.Get(binding)
	if !ok {
		return Token{}, ErrTokenNotFound
	}
	return tok, nil
}
