package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request was admitted.
	Allowed bool

	// Limit is the bucket capacity per window.
	Limit int

	// Remaining is the number of tokens left in the current window.
	Remaining int

	// ResetAt is when the bucket refills.
	ResetAt time.Time
}

// Limiter is the admission-control interface.
type Limiter interface {
	// Allow consumes one token for the key if available. It never
	// returns an error for a merely exhausted bucket; errors mean the
	// backing store failed.
	Allow(ctx context.Context, key string) (*Result, error)
}

// Store holds bucket state. Refill-and-consume must be a single atomic
// step per key.
type Store interface {
	// ConsumeToken refills the key's bucket if its window has elapsed,
	// then consumes one token if available. Returns the admission
	// decision, the tokens remaining, and when the bucket next refills.
	ConsumeToken(ctx context.Context, key string, capacity int, window time.Duration) (allowed bool, remaining int, resetAt time.Time, err error)

	// Close releases store resources.
	Close() error
}

// TokenBucket is a Limiter over a Store with fixed capacity and window.
type TokenBucket struct {
	store    Store
	capacity int
	window   time.Duration
}

// NewTokenBucket creates a token bucket limiter: capacity tokens,
// refilled in full every window.
func NewTokenBucket(store Store, capacity int, window time.Duration) (*TokenBucket, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if capacity <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &TokenBucket{store: store, capacity: capacity, window: window}, nil
}

// Allow consumes one token for the key if available.
func (tb *TokenBucket) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	allowed, remaining, resetAt, err := tb.store.ConsumeToken(ctx, key, tb.capacity, tb.window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   allowed,
		Limit:     tb.capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Window returns the limiter's refill window.
func (tb *TokenBucket) Window() time.Duration { return tb.window }

// Capacity returns the limiter's bucket capacity.
func (tb *TokenBucket) Capacity() int { return tb.capacity }
