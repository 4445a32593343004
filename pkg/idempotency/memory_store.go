package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type pairKey struct {
	key    string
	tenant uuid.UUID
}

// entry is either in flight (record nil, done open) or settled. done is
// closed exactly once, on Complete or Release.
type entry struct {
	record *Record
	done   chan struct{}
}

// MemoryStore keeps records in process memory. Suitable for a single
// instance; multi-instance deployments need the pg store so duplicates
// landing on different instances still deduplicate.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[pairKey]*entry
	closed  bool

	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithTTL sets how long completed records are retained.
func WithTTL(ttl time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often expired records are swept.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an in-memory record store with background
// sweeping of expired records.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:       make(map[pairKey]*entry),
		ttl:           24 * time.Hour,
		sweepInterval: time.Hour,
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

// Reserve implements Store.
func (s *MemoryStore) Reserve(ctx context.Context, key string, tenantID uuid.UUID) (Reservation, *Record, error) {
	if key == "" {
		return nil, nil, ErrKeyRequired
	}
	if tenantID == uuid.Nil {
		return nil, nil, ErrTenantRequired
	}

	pk := pairKey{key: key, tenant: tenantID}
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, nil, ErrStoreClosed
		}

		e, ok := s.entries[pk]
		switch {
		case !ok:
			e = &entry{done: make(chan struct{})}
			s.entries[pk] = e
			s.mu.Unlock()
			return &memoryReservation{s: s, key: pk, entry: e}, nil, nil

		case e.record != nil:
			if e.record.Expired(s.now()) {
				delete(s.entries, pk)
				s.mu.Unlock()
				continue
			}
			rec := e.record
			s.mu.Unlock()
			return nil, rec, nil
		}

		// In flight elsewhere: wait for the holder to settle, then
		// re-examine. A released reservation lets this caller win.
		wait := e.done
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-wait:
		}
	}
}

// DeleteExpired implements Store.
func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for pk, e := range s.entries {
		if e.record != nil && e.record.Expired(now) {
			delete(s.entries, pk)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live entries, in-flight reservations
// included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the sweep goroutine. Outstanding reservations may still
// settle; new reservations are refused.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
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
			_, _ = s.DeleteExpired(context.Background(), s.now())
		case <-s.stop:
			return
		}
	}
}

type memoryReservation struct {
	s       *MemoryStore
	key     pairKey
	entry   *entry
	mu      sync.Mutex
	settled bool
}

// Complete implements Reservation.
func (r *memoryReservation) Complete(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return ErrReservationClosed
	}
	r.settled = true

	now := r.s.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = rec.CreatedAt.Add(r.s.ttl)
	}

	r.s.mu.Lock()
	r.entry.record = rec
	r.s.mu.Unlock()
	close(r.entry.done)
	return nil
}

// Release implements Reservation.
func (r *memoryReservation) Release(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return ErrReservationClosed
	}
	r.settled = true

	r.s.mu.Lock()
	delete(r.s.entries, r.key)
	r.s.mu.Unlock()
	close(r.entry.done)
	return nil
}
