package ratelimit

import "time"

// Config holds the limits for the general limiter pair.
type Config struct {
	Enabled bool   `env:"RATELIMIT_ENABLED" envDefault:"true"` // Enabled toggles general rate limiting.
	Store   string `env:"RATELIMIT_STORE" envDefault:"memory"` // Store selects the bucket backend: "memory" or "redis".

	IPLimit  int           `env:"RATELIMIT_IP_LIMIT" envDefault:"100"` // IPLimit is the per-IP request budget per window.
	IPWindow time.Duration `env:"RATELIMIT_IP_WINDOW" envDefault:"1m"` // IPWindow is the per-IP refill window.

	TenantLimit  int           `env:"RATELIMIT_TENANT_LIMIT" envDefault:"1000"` // TenantLimit is the per-tenant request budget per window.
	TenantWindow time.Duration `env:"RATELIMIT_TENANT_WINDOW" envDefault:"1m"`  // TenantWindow is the per-tenant refill window.
}

// AuthConfig holds the stricter limits for authentication endpoints.
type AuthConfig struct {
	Enabled bool `env:"RATELIMIT_AUTH_ENABLED" envDefault:"true"` // Enabled toggles auth rate limiting.

	LoginLimit  int           `env:"RATELIMIT_AUTH_LOGIN_LIMIT" envDefault:"10"`  // LoginLimit is the login attempt budget per window per IP.
	LoginWindow time.Duration `env:"RATELIMIT_AUTH_LOGIN_WINDOW" envDefault:"5m"` // LoginWindow is the login refill window.

	RegisterLimit  int           `env:"RATELIMIT_AUTH_REGISTER_LIMIT" envDefault:"5"`    // RegisterLimit is the registration attempt budget per window per IP.
	RegisterWindow time.Duration `env:"RATELIMIT_AUTH_REGISTER_WINDOW" envDefault:"10m"` // RegisterWindow is the registration refill window.
}
