package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/poskit/poskit/pkg/logger"
	"github.com/poskit/poskit/pkg/pg"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore persists records in the idempotency_keys table, shared across
// application instances. A reservation is a row with a NULL status;
// the unique (key, tenant_id) constraint makes the claim atomic.
type PgStore struct {
	db           Querier
	ttl          time.Duration
	pollInterval time.Duration
}

// PgStoreOption configures a PgStore.
type PgStoreOption func(*PgStore)

// WithPgTTL sets how long completed records are retained.
func WithPgTTL(ttl time.Duration) PgStoreOption {
	return func(s *PgStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithPollInterval sets how often a waiting duplicate re-reads the
// winner's row.
func WithPollInterval(interval time.Duration) PgStoreOption {
	return func(s *PgStore) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// NewPgStore creates a PostgreSQL-backed record store.
func NewPgStore(db Querier, opts ...PgStoreOption) *PgStore {
	s := &PgStore{
		db:           db,
		ttl:          24 * time.Hour,
		pollInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reserve implements Store.
func (s *PgStore) Reserve(ctx context.Context, key string, tenantID uuid.UUID) (Reservation, *Record, error) {
	if key == "" {
		return nil, nil, ErrKeyRequired
	}
	if tenantID == uuid.Nil {
		return nil, nil, ErrTenantRequired
	}

	for {
		now := time.Now()

		// Expired rows block the unique constraint; clear them first so
		// a stale pair can be re-executed.
		if _, err := s.db.Exec(ctx,
			`DELETE FROM idempotency_keys WHERE key = $1 AND tenant_id = $2 AND expires_at < $3`,
			key, tenantID, now,
		); err != nil {
			return nil, nil, fmt.Errorf("idempotency: clear expired row: %w", err)
		}

		tag, err := s.db.Exec(ctx,
			`INSERT INTO idempotency_keys (key, tenant_id, created_at, expires_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (key, tenant_id) DO NOTHING`,
			key, tenantID, now, now.Add(s.ttl),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("idempotency: reserve: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return &pgReservation{s: s, key: key, tenantID: tenantID}, nil, nil
		}

		rec, pending, err := s.lookup(ctx, key, tenantID)
		switch {
		case err != nil:
			return nil, nil, err
		case rec != nil:
			return nil, rec, nil
		case !pending:
			// The holder released between our insert and lookup; race
			// again for the reservation.
			continue
		}

		// A concurrent holder owns the row; poll until it settles.
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// lookup reads the row for (key, tenantID). Returns the record when
// settled, pending=true when the row exists but has no response yet.
func (s *PgStore) lookup(ctx context.Context, key string, tenantID uuid.UUID) (*Record, bool, error) {
	var (
		rec    Record
		status *int
		hash   *string
		path   *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT key, tenant_id, path, request_hash, status, body, created_at, expires_at
		 FROM idempotency_keys
		 WHERE key = $1 AND tenant_id = $2`,
		key, tenantID,
	).Scan(&rec.Key, &rec.TenantID, &path, &hash, &status, &rec.Body, &rec.CreatedAt, &rec.ExpiresAt)
	if pg.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("idempotency: lookup: %w", err)
	}

	if status == nil {
		return nil, true, nil
	}

	rec.Status = *status
	if path != nil {
		rec.Path = *path
	}
	if hash != nil {
		rec.RequestHash = *hash
	}
	return &rec, false, nil
}

// DeleteExpired implements Store.
func (s *PgStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM idempotency_keys WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("idempotency: delete expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RunCleanup deletes expired records on the interval until ctx ends.
// Run it in its own goroutine.
func (s *PgStore) RunCleanup(ctx context.Context, interval time.Duration, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.ErrorContext(ctx, "idempotency cleanup failed", logger.Error(err))
				continue
			}
			if removed > 0 {
				log.InfoContext(ctx, "idempotency cleanup", slog.Int64("removed", removed))
			}
		}
	}
}

// Close is a no-op; the pool is owned by the caller.
func (s *PgStore) Close() error { return nil }

type pgReservation struct {
	s        *PgStore
	key      string
	tenantID uuid.UUID
	mu       sync.Mutex
	settled  bool
}

// Complete implements Reservation.
func (r *pgReservation) Complete(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return ErrReservationClosed
	}
	r.settled = true

	tag, err := r.s.db.Exec(ctx,
		`UPDATE idempotency_keys
		 SET path = $3, request_hash = $4, status = $5, body = $6
		 WHERE key = $1 AND tenant_id = $2 AND status IS NULL`,
		r.key, r.tenantID, rec.Path, rec.RequestHash, rec.Status, rec.Body,
	)
	if err != nil {
		return fmt.Errorf("idempotency: complete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Release implements Reservation.
func (r *pgReservation) Release(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled {
		return ErrReservationClosed
	}
	r.settled = true

	if _, err := r.s.db.Exec(ctx,
		`DELETE FROM idempotency_keys WHERE key = $1 AND tenant_id = $2 AND status IS NULL`,
		r.key, r.tenantID,
	); err != nil {
		return fmt.Errorf("idempotency: release reservation: %w", err)
	}
	return nil
}
