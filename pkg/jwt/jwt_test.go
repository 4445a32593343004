package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poskit/poskit/pkg/jwt"
)

const testKey = "test-signing-key-at-least-32-bytes!!"

func newService(t *testing.T) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewFromString(testKey)
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty key rejected", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

		_, err = jwt.NewFromString("")
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		claims := jwt.Claims{
			Subject:   "user-1",
			TenantID:  "0b9b0b66-9e2a-4f5e-9c0f-3b8f0a2f9d11",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var parsed jwt.Claims
		require.NoError(t, svc.Parse(token, &parsed))
		assert.Equal(t, claims.Subject, parsed.Subject)
		assert.Equal(t, claims.TenantID, parsed.TenantID)
	})

	t.Run("nil claims", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Generate(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.Claims{Subject: "user-1"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		tampered := parts[0] + ".eyJzdWIiOiJ1c2VyLTIifQ." + parts[2]

		var parsed jwt.Claims
		assert.ErrorIs(t, svc.Parse(tampered, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		t.Parallel()

		other, err := jwt.NewFromString("another-signing-key-32-bytes-long!!!")
		require.NoError(t, err)

		token, err := other.Generate(jwt.Claims{Subject: "user-1"})
		require.NoError(t, err)

		var parsed jwt.Claims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		var parsed jwt.Claims
		assert.ErrorIs(t, svc.Parse("not-a-token", &parsed), jwt.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.Claims{
			Subject:   "user-1",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.Claims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("not yet valid token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.Claims{
			Subject:   "user-1",
			NotBefore: time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.Claims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrInvalidToken)
	})
}

func TestClaimExtraction(t *testing.T) {
	t.Parallel()
	svc := newService(t)

	t.Run("tenant id", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.Claims{TenantID: "tid-1"})
		require.NoError(t, err)

		tid, err := svc.TenantID(token)
		require.NoError(t, err)
		assert.Equal(t, "tid-1", tid)
	})

	t.Run("tenant id absent", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.Claims{Subject: "user-1"})
		require.NoError(t, err)

		tid, err := svc.TenantID(token)
		require.NoError(t, err)
		assert.Empty(t, tid)
	})

	t.Run("subject", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.Claims{Subject: "user-1"})
		require.NoError(t, err)

		sub, err := svc.Subject(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", sub)
	})
}
