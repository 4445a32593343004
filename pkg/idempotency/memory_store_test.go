package idempotency_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poskit/poskit/pkg/idempotency"
)

func newStore(t *testing.T, opts ...idempotency.MemoryStoreOption) *idempotency.MemoryStore {
	t.Helper()

	store := idempotency.NewMemoryStore(opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMemoryStoreReserve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("validates input", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)

		_, _, err := store.Reserve(ctx, "", uuid.New())
		assert.ErrorIs(t, err, idempotency.ErrKeyRequired)

		_, _, err = store.Reserve(ctx, "abc123", uuid.Nil)
		assert.ErrorIs(t, err, idempotency.ErrTenantRequired)
	})

	t.Run("first caller wins the reservation", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)

		reservation, record, err := store.Reserve(ctx, "abc123", uuid.New())
		require.NoError(t, err)
		require.NotNil(t, reservation)
		assert.Nil(t, record)
	})

	t.Run("completed record replays", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		tenantID := uuid.New()

		reservation, _, err := store.Reserve(ctx, "abc123", tenantID)
		require.NoError(t, err)
		require.NoError(t, reservation.Complete(ctx, &idempotency.Record{
			Key:      "abc123",
			TenantID: tenantID,
			Status:   http.StatusOK,
			Body:     []byte(`{"id":"order-1"}`),
		}))

		again, record, err := store.Reserve(ctx, "abc123", tenantID)
		require.NoError(t, err)
		assert.Nil(t, again)
		require.NotNil(t, record)
		assert.Equal(t, http.StatusOK, record.Status)
		assert.Equal(t, []byte(`{"id":"order-1"}`), record.Body)
		assert.False(t, record.CreatedAt.IsZero())
		assert.False(t, record.ExpiresAt.IsZero())
	})

	t.Run("same key under another tenant is independent", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)

		first, _, err := store.Reserve(ctx, "abc123", uuid.New())
		require.NoError(t, err)
		require.NotNil(t, first)

		second, record, err := store.Reserve(ctx, "abc123", uuid.New())
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Nil(t, record)
	})

	t.Run("waiting duplicate replays the winner", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		tenantID := uuid.New()

		reservation, _, err := store.Reserve(ctx, "abc123", tenantID)
		require.NoError(t, err)

		got := make(chan *idempotency.Record, 1)
		go func() {
			_, record, err := store.Reserve(ctx, "abc123", tenantID)
			assert.NoError(t, err)
			got <- record
		}()

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, reservation.Complete(ctx, &idempotency.Record{
			Key:      "abc123",
			TenantID: tenantID,
			Status:   http.StatusCreated,
			Body:     []byte(`{"done":true}`),
		}))

		select {
		case record := <-got:
			require.NotNil(t, record)
			assert.Equal(t, http.StatusCreated, record.Status)
		case <-time.After(time.Second):
			t.Fatal("duplicate never unblocked")
		}
	})

	t.Run("release lets the next caller win", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		tenantID := uuid.New()

		reservation, _, err := store.Reserve(ctx, "abc123", tenantID)
		require.NoError(t, err)
		require.NoError(t, reservation.Release(ctx))

		again, record, err := store.Reserve(ctx, "abc123", tenantID)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Nil(t, record)
	})

	t.Run("waiting duplicate bounded by context", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		tenantID := uuid.New()

		_, _, err := store.Reserve(ctx, "abc123", tenantID)
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, _, err = store.Reserve(waitCtx, "abc123", tenantID)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("reservation settles once", func(t *testing.T) {
		t.Parallel()

		store := newStore(t)
		tenantID := uuid.New()

		reservation, _, err := store.Reserve(ctx, "abc123", tenantID)
		require.NoError(t, err)
		require.NoError(t, reservation.Complete(ctx, &idempotency.Record{Status: http.StatusOK}))
		assert.ErrorIs(t, reservation.Complete(ctx, &idempotency.Record{}), idempotency.ErrReservationClosed)
		assert.ErrorIs(t, reservation.Release(ctx), idempotency.ErrReservationClosed)
	})
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	store := newStore(t,
		idempotency.WithClock(clock),
		idempotency.WithTTL(time.Hour),
	)
	tenantID := uuid.New()

	reservation, _, err := store.Reserve(ctx, "abc123", tenantID)
	require.NoError(t, err)
	require.NoError(t, reservation.Complete(ctx, &idempotency.Record{Status: http.StatusOK}))

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	// An expired record no longer replays; the pair can execute again.
	again, record, err := store.Reserve(ctx, "abc123", tenantID)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Nil(t, record)
	require.NoError(t, again.Release(ctx))

	removed, err := store.DeleteExpired(ctx, clock())
	require.NoError(t, err)
	assert.Zero(t, removed, "re-reservation already displaced the expired record")
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t, idempotency.WithTTL(time.Hour))
	tenantID := uuid.New()

	for _, key := range []string{"a", "b", "c"} {
		reservation, _, err := store.Reserve(ctx, key, tenantID)
		require.NoError(t, err)
		require.NoError(t, reservation.Complete(ctx, &idempotency.Record{Status: http.StatusOK}))
	}
	require.Equal(t, 3, store.Len())

	removed, err := store.DeleteExpired(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Zero(t, store.Len())
}

func TestMemoryStoreClose(t *testing.T) {
	t.Parallel()

	store := idempotency.NewMemoryStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, _, err := store.Reserve(context.Background(), "abc123", uuid.New())
	assert.ErrorIs(t, err, idempotency.ErrStoreClosed)
}
