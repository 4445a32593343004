package idempotency

import (
	"time"

	"github.com/google/uuid"
)

// Record is one completed execution, keyed by (Key, TenantID). Records
// are immutable once written: they are replayed, never updated.
type Record struct {
	// Key is the client-supplied Idempotency-Key value.
	Key string

	// TenantID is the tenant the request executed under. The same key
	// under a different tenant is a different record.
	TenantID uuid.UUID

	// Path is the request path, kept for auditing.
	Path string

	// RequestHash fingerprints the original request
	// (SHA-256 over method, path and body). Replay decisions trust the
	// key alone; the hash exists so operators can spot key reuse across
	// differing requests after the fact.
	RequestHash string

	// Status and Body are the recorded response, replayed verbatim.
	Status int
	Body   []byte

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record's TTL has passed.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}
