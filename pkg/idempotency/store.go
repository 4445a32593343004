package idempotency

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reservation is a claim on a (key, tenant) pair held by the request
// that won the insert-if-absent race. Exactly one of Complete or
// Release must be called; both settle the reservation and unblock any
// waiting duplicates.
type Reservation interface {
	// Complete writes the record for the reserved pair. The record
	// becomes visible to waiting duplicates atomically.
	Complete(ctx context.Context, rec *Record) error

	// Release abandons the reservation without a record, letting a
	// waiting duplicate (or a later retry) execute instead.
	Release(ctx context.Context) error
}

// Store persists idempotency records. Reserve is the atomic
// insert-if-absent primitive that guarantees at-most-one execution per
// (key, tenant).
type Store interface {
	// Reserve claims (key, tenantID). On a fresh pair it returns a live
	// reservation and a nil record: the caller must execute the request
	// and settle the reservation. When a record already exists — or a
	// concurrent holder completes one while this call waits — it returns
	// a nil reservation and the record to replay. Waiting is bounded by
	// ctx.
	Reserve(ctx context.Context, key string, tenantID uuid.UUID) (Reservation, *Record, error)

	// DeleteExpired removes records whose TTL passed before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Close releases store resources.
	Close() error
}
