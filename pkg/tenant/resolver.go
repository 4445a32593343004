package tenant

import (
	"net/http"
	"strings"
)

// Resolver extracts a tenant identifier from an HTTP request.
type Resolver interface {
	// Resolve returns the tenant identifier found in the request, or an
	// empty string when none is present. An error is returned only for
	// contradictory input (e.g. header/claim mismatch), never for a
	// merely absent identifier.
	Resolve(r *http.Request) (string, error)
}

// TokenParser extracts the tenant claim from a bearer token. Implemented
// by the jwt package's Service.
type TokenParser interface {
	TenantID(token string) (string, error)
}

// ClaimResolver reads the tenant identifier from the bearer token's
// tenant_id claim. Any X-Tenant-ID header is ignored entirely; there is
// no silent fallback.
type ClaimResolver struct {
	Tokens TokenParser
}

// NewClaimResolver creates a resolver for claim mode.
func NewClaimResolver(tokens TokenParser) *ClaimResolver {
	return &ClaimResolver{Tokens: tokens}
}

// Resolve extracts the tenant_id claim from the Authorization header.
// Unparseable tokens resolve to an empty identifier; rejecting them is
// the authentication layer's job, not the tenant resolver's.
func (c *ClaimResolver) Resolve(r *http.Request) (string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", nil
	}

	id, err := c.Tokens.TenantID(token)
	if err != nil {
		return "", nil
	}
	return id, nil
}

// HeaderResolver reads the tenant identifier from the X-Tenant-ID header
// (legacy header mode). When the bearer token also carries a tenant_id
// claim, the claim is the source of truth and a contradicting header is
// rejected.
type HeaderResolver struct {
	// Header is the header to read. Defaults to X-Tenant-ID.
	Header string

	// Tokens, when set, enables cross-validation of the header against
	// the bearer token's tenant_id claim.
	Tokens TokenParser
}

// NewHeaderResolver creates a resolver for header mode.
func NewHeaderResolver(header string, tokens TokenParser) *HeaderResolver {
	if header == "" {
		header = "X-Tenant-ID"
	}
	return &HeaderResolver{Header: header, Tokens: tokens}
}

// Resolve returns the tenant identifier from the token claim when
// available, otherwise from the configured header. A header that
// contradicts the claim yields ErrIdentifierMismatch.
func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get(h.Header))

	if h.Tokens != nil {
		if token := bearerToken(r); token != "" {
			if claim, err := h.Tokens.TenantID(token); err == nil && claim != "" {
				if header != "" && header != claim {
					return "", ErrIdentifierMismatch
				}
				return claim, nil
			}
		}
	}

	return header, nil
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(r *http.Request) (string, error)

func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
