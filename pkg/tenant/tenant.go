package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant represents a company in the system with the minimal information
// needed for request-scoped operations.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership grants a user access to a company. Only active, unexpired
// memberships authorize tenant access.
type Membership struct {
	UserID    uuid.UUID  `json:"user_id"`
	CompanyID uuid.UUID  `json:"company_id"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Authorizes reports whether this membership grants access to the given
// company at the given instant.
func (m Membership) Authorizes(companyID uuid.UUID, now time.Time) bool {
	if m.CompanyID != companyID || !m.Active {
		return false
	}
	if m.ExpiresAt != nil && !now.Before(*m.ExpiresAt) {
		return false
	}
	return true
}

// Provider loads company information from a data source.
type Provider interface {
	// GetByID retrieves a company by its UUID.
	// Returns ErrTenantNotFound if no company matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}

// MembershipProvider loads the active memberships held by a user.
type MembershipProvider interface {
	// ActiveMemberships returns the user's active memberships across all
	// companies. Expiry is checked by the caller so that the lookup can
	// stay a plain indexed query.
	ActiveMemberships(ctx context.Context, userID uuid.UUID) ([]Membership, error)
}
