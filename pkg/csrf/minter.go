package csrf

import (
	"context"
	"io"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultTTL is the server-side token lifetime.
const DefaultTTL = 24 * time.Hour

// Minter returns a live token for a binding, creating one when needed.
type Minter interface {
	MintOrFetch(ctx context.Context, binding string) (Token, error)
}

// StoreMinter generates random tokens and persists them in a Store.
type StoreMinter struct {
	store   Store
	ttl     time.Duration
	clock   clock.Clock
	entropy io.Reader
}

type MinterOption func(*StoreMinter)

func WithTTL(ttl time.Duration) MinterOption {
	return func(m *StoreMinter) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithMinterClock(c clock.Clock) MinterOption {
	return func(m *StoreMinter) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithEntropy replaces crypto/rand as the source of token bytes.
func WithEntropy(r io.Reader) MinterOption {
	return func(m *StoreMinter) {
		if r != nil {
			m.entropy = r
		}
	}
}

func NewStoreMinter(store Store, opts ...MinterOption) *StoreMinter {
	m := &StoreMinter{store: store, ttl: DefaultTTL, clock: clock.New(), entropy: defaultEntropy}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *StoreMinter) MintOrFetch(ctx context.Context, binding string) (Token, error) {
	value, err := newTokenValue(m.entropy)
	if err != nil {
		return Token{}, err
	}
	now := m.clock.Now()
	return m.store.GetOrCreate(ctx, binding, Token{
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	})
}
