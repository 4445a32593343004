package tenant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/poskit/poskit/pkg/pg"
)

// Querier is the subset of pgxpool.Pool the store needs. Satisfied by
// *pgxpool.Pool, pgx.Tx and *pgx.Conn.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgStore implements Provider and MembershipProvider against the shared
// (default-schema) company and membership tables.
type PgStore struct {
	db Querier
}

// NewPgStore creates a store over the given connection source.
func NewPgStore(db Querier) *PgStore {
	return &PgStore{db: db}
}

// GetByID retrieves a company by UUID.
func (s *PgStore) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	const query = `
		SELECT id, name, active, created_at
		FROM companies
		WHERE id = $1`

	var t Tenant
	err := s.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Active, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("query company %s: %w", id, err)
	}

	return &t, nil
}

// ActiveMemberships returns the user's active memberships across all
// companies. Expiry is evaluated by the caller.
func (s *PgStore) ActiveMemberships(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	const query = `
		SELECT user_id, company_id, role, active, expires_at
		FROM company_memberships
		WHERE user_id = $1 AND active`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query memberships for %s: %w", userID, err)
	}
	defer rows.Close()

	var memberships []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.UserID, &m.CompanyID, &m.Role, &m.Active, &m.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return memberships, nil
}
