package tenant_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poskit/poskit/pkg/tenant"
)

func TestInMemoryCache(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		ctx := context.Background()
		company := activeCompany()

		cache.Set(ctx, "k", company, time.Minute)
		got, ok := cache.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, company, got)
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		_, ok := cache.Get(context.Background(), "absent")
		assert.False(t, ok)
	})

	t.Run("expired entries are not returned", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		ctx := context.Background()
		cache.Set(ctx, "k", activeCompany(), 10*time.Millisecond)

		time.Sleep(30 * time.Millisecond)
		_, ok := cache.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		ctx := context.Background()
		cache.Set(ctx, "k", activeCompany(), time.Minute)
		cache.Delete(ctx, "k")

		_, ok := cache.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("bounded size evicts", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCacheWithSize(3)
		defer cache.Close()

		ctx := context.Background()
		for i := 0; i < 5; i++ {
			cache.Set(ctx, fmt.Sprintf("k%d", i), activeCompany(), time.Minute)
		}

		found := 0
		for i := 0; i < 5; i++ {
			if _, ok := cache.Get(ctx, fmt.Sprintf("k%d", i)); ok {
				found++
			}
		}
		assert.Equal(t, 3, found)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := tenant.NewNoOpCache()
	ctx := context.Background()

	cache.Set(ctx, "k", activeCompany(), time.Minute)
	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}
