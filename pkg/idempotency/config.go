package idempotency

import "time"

// Config holds idempotency settings.
type Config struct {
	Enabled bool `env:"IDEMPOTENCY_ENABLED" envDefault:"true"` // Enabled toggles write deduplication.

	TTL             time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`             // TTL is how long records are retained.
	CleanupInterval time.Duration `env:"IDEMPOTENCY_CLEANUP_INTERVAL" envDefault:"1h"` // CleanupInterval is how often expired records are purged.
}
