package ratelimit

import (
	"context"
	"sync"
	"time"
)

// bucket is the per-key state. All fields are guarded by MemoryStore.mu;
// refill and consumption happen under one critical section so the
// 0 <= tokens <= capacity invariant holds at all times.
type bucket struct {
	tokens      int
	windowStart time.Time
	lastAccess  time.Time
}

// MemoryStore keeps buckets in process memory. Buckets are created
// lazily and swept once they have been idle longer than the idle TTL,
// so many distinct keys (IPs, tenants) cannot grow the map without
// bound.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	sweepInterval time.Duration
	idleTTL       time.Duration
	now           func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often idle buckets are swept.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithIdleTTL sets how long a bucket may go unobserved before the sweep
// drops it.
func WithIdleTTL(ttl time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests to step windows
// without sleeping.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an in-memory bucket store with background
// sweeping of idle buckets.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets:       make(map[string]*bucket),
		sweepInterval: time.Minute,
		idleTTL:       10 * time.Minute,
		now:           time.Now,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.sweep()
	return s
}

// ConsumeToken implements Store.
func (s *MemoryStore) ConsumeToken(ctx context.Context, key string, capacity int, window time.Duration) (bool, int, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, windowStart: now}
		s.buckets[key] = b
	}
	b.lastAccess = now

	// Full refill once the window has elapsed.
	if elapsed := now.Sub(b.windowStart); elapsed >= window {
		b.tokens = capacity
		b.windowStart = now.Add(-(elapsed % window))
	}

	resetAt := b.windowStart.Add(window)

	if b.tokens <= 0 {
		return false, 0, resetAt, nil
	}

	b.tokens--
	return true, b.tokens, resetAt, nil
}

// Len returns the number of live buckets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Close stops the sweep goroutine.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

func (s *MemoryStore) sweep() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := s.now().Add(-s.idleTTL)
			s.mu.Lock()
			for key, b := range s.buckets {
				if b.lastAccess.Before(cutoff) {
					delete(s.buckets, key)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
