package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poskit/poskit/pkg/auth"
)

func TestUserContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		user := &auth.User{ID: uuid.New(), Email: "owner@acme.test", Active: true}
		ctx := auth.WithUser(context.Background(), user)

		got, ok := auth.UserFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, user, got)

		id, ok := auth.UserIDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, user.ID, id)
	})

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		_, ok := auth.UserFromContext(context.Background())
		assert.False(t, ok)

		_, ok = auth.UserIDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil user treated as absent", func(t *testing.T) {
		t.Parallel()

		ctx := auth.WithUser(context.Background(), nil)
		_, ok := auth.UserFromContext(ctx)
		assert.False(t, ok)
	})
}
