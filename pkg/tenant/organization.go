package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant as stored in the organizations table. This package
// only reads it.
type Organization struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Subdomain string    `json:"subdomain" yaml:"subdomain"`
	Name      string    `json:"name" yaml:"name"`
	Active    bool      `json:"active" yaml:"active"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Store finds organizations by subdomain. Implementations return
// ErrOrganizationNotFound when no row matches and any other error for
// backend failures.
type Store interface {
	FindBySubdomain(ctx context.Context, subdomain string) (*Organization, error)
}
