package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poskit/poskit/pkg/auth"
	"github.com/poskit/poskit/pkg/jwt"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tokens, err := jwt.NewFromString("test-signing-key-needs-32-bytes!")
	require.NoError(t, err)

	principal := func(authorization string) (*auth.User, bool) {
		var (
			user *auth.User
			ok   bool
		)
		probe := auth.Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok = auth.UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		probe.ServeHTTP(httptest.NewRecorder(), req)
		return user, ok
	}

	t.Run("valid token sets principal", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		token, err := tokens.Generate(jwt.Claims{
			Subject:   userID.String(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		user, ok := principal("Bearer "+token)
		require.True(t, ok)
		assert.Equal(t, userID, user.ID)
	})

	t.Run("missing token stays anonymous", func(t *testing.T) {
		t.Parallel()

		_, ok := principal("")
		assert.False(t, ok)
	})

	t.Run("tampered token stays anonymous", func(t *testing.T) {
		t.Parallel()

		token, err := tokens.Generate(jwt.Claims{Subject: uuid.NewString()})
		require.NoError(t, err)

		_, ok := principal("Bearer "+token+"x")
		assert.False(t, ok)
	})

	t.Run("expired token stays anonymous", func(t *testing.T) {
		t.Parallel()

		token, err := tokens.Generate(jwt.Claims{
			Subject:   uuid.NewString(),
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		})
		require.NoError(t, err)

		_, ok := principal("Bearer "+token)
		assert.False(t, ok)
	})

	t.Run("non-uuid subject stays anonymous", func(t *testing.T) {
		t.Parallel()

		token, err := tokens.Generate(jwt.Claims{Subject: "admin"})
		require.NoError(t, err)

		_, ok := principal("Bearer "+token)
		assert.False(t, ok)
	})
}
