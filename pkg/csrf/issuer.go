package csrf

import (
	"context"
	"errors"

	"github.com/dmitrymomot/fieldhub/svc/auth"
)

const anonymousPrefix = "anon:"

// Observer is told about every issued and rejected token.
type Observer interface {
	ObserveTokenIssued(kind string)
	ObserveTokenRejected(reason string)
}

type noopObserver struct{}

func (noopObserver) ObserveTokenIssued(string)   {}
func (noopObserver) ObserveTokenRejected(string) {}

// Issuer issues tokens bound to a session or to an anonymous client id.
type Issuer struct {
	minter   Minter
	observer Observer
}

func NewIssuer(m Minter, o Observer) *Issuer {
	if o == nil {
		o = noopObserver{}
	}
	return &Issuer{minter: m, observer: o}
}

// Issue returns the token for sess. A nil session yields ErrUnauthenticated
// and no token is minted.
func (i *Issuer) Issue(ctx context.Context, sess *auth.Session) (Token, error) {
	if sess == nil {
		return Token{}, ErrUnauthenticated
	}
	return i.issue(ctx, sess.Binding(), string(sess.Kind))
}

// IssueAnonymous returns the token for a client without a session.
func (i *Issuer) IssueAnonymous(ctx context.Context, clientID string) (Token, error) {
	if clientID == "" {
		return Token{}, ErrUnauthenticated
	}
	return i.issue(ctx, AnonymousBinding(clientID), "anonymous")
}

func (i *Issuer) issue(ctx context.Context, binding, kind string) (Token, error) {
	tok, err := i.minter.MintOrFetch(ctx, binding)
	if err != nil {
		return Token{}, errors.Join(ErrIssuanceFailed, err)
	}
	if tok.Value == "" {
		return Token{}, errors.Join(ErrIssuanceFailed, errors.New("empty token"))
	}
	i.observer.ObserveTokenIssued(kind)
	return tok, nil
}

// AnonymousBinding is the binding for a client identified only by its
// binding cookie.
func AnonymousBinding(clientID string) string {
	return anonymousPrefix + clientID
}
