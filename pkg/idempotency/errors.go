package idempotency

import "errors"

var (
	ErrStoreRequired     = errors.New("idempotency: store is required")
	ErrKeyRequired       = errors.New("idempotency: key is required")
	ErrTenantRequired    = errors.New("idempotency: tenant is required")
	ErrRecordNotFound    = errors.New("idempotency: record not found")
	ErrReservationClosed = errors.New("idempotency: reservation already settled")
	ErrStoreClosed       = errors.New("idempotency: store is closed")
)
