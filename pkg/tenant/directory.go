package tenant

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/fieldhub/pkg/logger"
)

// LookupKind is the outcome of a directory lookup.
type LookupKind int

const (
	LookupFound LookupKind = iota
	LookupNotFound
	LookupFailed
)

func (k LookupKind) String() string {
	switch k {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Lookup is the tagged result of LookupOrganizationName. Name is set only for
// LookupFound and Err only for LookupFailed.
type Lookup struct {
	Kind LookupKind
	Name string
	Err  error
}

// NameOr returns the organization name, or fallback when the organization
// was not found or could not be looked up. Both cases collapse on purpose:
// the login page shows the same neutral label either way.
func (l Lookup) NameOr(fallback string) string {
	if l.Kind == LookupFound {
		return l.Name
	}
	return fallback
}

// Observer receives one call per lookup with the outcome label.
type Observer interface {
	ObserveTenantLookup(outcome string)
}

type noopObserver struct{}

func (noopObserver) ObserveTenantLookup(string) {}

// Directory answers "what is the display name of this tenant".
type Directory struct {
	store    Store
	log      *slog.Logger
	observer Observer
}

type DirectoryOption func(*Directory)

func WithLogger(l *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

func WithObserver(o Observer) DirectoryOption {
	return func(d *Directory) {
		if o != nil {
			d.observer = o
		}
	}
}

func NewDirectory(store Store, opts ...DirectoryOption) *Directory {
	d := &Directory{store: store, log: logger.Noop(), observer: noopObserver{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LookupOrganizationName performs a single lookup by subdomain. It does not
// retry and does not apply any fallback; see Lookup.NameOr.
func (d *Directory) LookupOrganizationName(ctx context.Context, subdomain string) Lookup {
	res := d.lookup(ctx, subdomain)
	d.observer.ObserveTenantLookup(res.Kind.String())
	if res.Kind == LookupFailed {
		d.log.WarnContext(ctx, "organization lookup failed",
			logger.Component("tenant"),
			logger.Subdomain(subdomain),
			logger.Error(res.Err),
		)
	}
	return res
}

func (d *Directory) lookup(ctx context.Context, subdomain string) Lookup {
	if subdomain == "" {
		return Lookup{Kind: LookupNotFound}
	}

	org, err := d.store.FindBySubdomain(ctx, subdomain)
	switch {
	case errors.Is(err, ErrOrganizationNotFound):
		return Lookup{Kind: LookupNotFound}
	case err != nil:
		return Lookup{Kind: LookupFailed, Err: errors.Join(ErrLookupFailed, err)}
	case org == nil:
		return Lookup{Kind: LookupNotFound}
	default:
		return Lookup{Kind: LookupFound, Name: org.Name}
	}
}
