package tenant

import (
	"log/slog"
	"time"
)

type config struct {
	skipPaths []string
	cache     Cache
	cacheTTL  time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// Option configures the tenant middleware.
type Option func(*config)

// WithSkipPaths sets path prefixes for which tenant resolution is
// skipped entirely (auth endpoints, health checks, discovery docs).
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithCache sets the company lookup cache. Defaults to an in-memory
// cache; use NewNoOpCache to disable caching.
func WithCache(cache Cache) Option {
	return func(c *config) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithCacheTTL sets how long company lookups are cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithLogger sets the logger for resolution warnings and panics.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock overrides the time source used for membership expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
