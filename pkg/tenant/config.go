package tenant

import "time"

// Resolution modes. Claim mode trusts only the token's tenant_id claim;
// header mode reads X-Tenant-ID and cross-validates it against the
// claim when one is present.
const (
	ModeClaim  = "claim"
	ModeHeader = "header"
)

// Config holds tenant resolution settings.
type Config struct {
	Mode   string `env:"TENANT_RESOLUTION_MODE" envDefault:"claim"` // Mode selects the resolution strategy: "claim" or "header".
	Header string `env:"TENANT_HEADER" envDefault:"X-Tenant-ID"`    // Header is the identifier header read in header mode.

	CacheTTL  time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`     // CacheTTL is how long company lookups are cached.
	CacheSize int           `env:"TENANT_CACHE_SIZE" envDefault:"10000"` // CacheSize bounds the company cache.

	PublicPaths []string `env:"TENANT_PUBLIC_PATHS" envDefault:"/api/v1/auth,/api/v1/public" envSeparator:","` // PublicPaths are prefixes served without a tenant.
}

// NewResolver builds the resolver the config names.
func (c Config) NewResolver(tokens TokenParser) Resolver {
	if c.Mode == ModeHeader {
		return NewHeaderResolver(c.Header, tokens)
	}
	return NewClaimResolver(tokens)
}
