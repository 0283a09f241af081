package tenant

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/fieldhub/pkg/pg"
)

const findBySubdomainSQL = `
SELECT id, subdomain, name, active, created_at
FROM organizations
WHERE subdomain = $1
LIMIT 1`

// querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore reads organizations with a single equality query.
type PostgresStore struct {
	db querier
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

func (s *PostgresStore) FindBySubdomain(ctx context.Context, subdomain string) (*Organization, error) {
	var o Organization
	err := s.db.QueryRow(ctx, findBySubdomainSQL, subdomain).
		Scan(&o.ID, &o.Subdomain, &o.Name, &o.Active, &o.CreatedAt)
	if pg.IsNotFoundError(err) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
