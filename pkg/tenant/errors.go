package tenant

import "errors"

var (
	// ErrMissingIdentifier is returned when no tenant identifier can be
	// resolved from the request.
	ErrMissingIdentifier = errors.New("tenant identifier is required")

	// ErrInvalidIdentifier is returned when the identifier is not a valid UUID.
	ErrInvalidIdentifier = errors.New("tenant identifier must be a valid UUID")

	// ErrIdentifierMismatch is returned in header mode when the X-Tenant-ID
	// header contradicts the tenant_id claim of the bearer token.
	ErrIdentifierMismatch = errors.New("tenant header does not match authenticated tenant")

	// ErrTenantNotFound is returned when the referenced company does not exist.
	ErrTenantNotFound = errors.New("company not found")

	// ErrInactiveTenant is returned when the referenced company is inactive.
	ErrInactiveTenant = errors.New("company is inactive")

	// ErrNotAuthenticated is returned when no authenticated principal is present.
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrNoMembership is returned when the principal holds no active
	// membership in the claimed company.
	ErrNoMembership = errors.New("access denied: user is not a member of the specified company")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
