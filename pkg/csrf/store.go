package csrf

import (
	"context"
)

// Store keeps at most one live token per binding.
type Store interface {
	// GetOrCreate returns the live token for binding, or stores candidate and
	// returns it when none exists. A live token is extended to expire no
	// earlier than candidate, so a fetched token always has the full
	// lifetime left. Concurrent callers for the same binding observe the
	// same token.
	GetOrCreate(ctx context.Context, binding string, candidate Token) (Token, error)

	// Get returns the live token for binding or ErrTokenNotFound.
	Get(ctx context.Context, binding string) (Token, error)
}
