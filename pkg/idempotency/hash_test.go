package idempotency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poskit/poskit/pkg/idempotency"
)

func TestRequestHash(t *testing.T) {
	t.Parallel()

	base := idempotency.RequestHash("POST", "/api/v1/orders", []byte(`{"qty":1}`))
	assert.Len(t, base, 64)

	assert.Equal(t, base, idempotency.RequestHash("POST", "/api/v1/orders", []byte(`{"qty":1}`)),
		"identical requests hash identically")

	assert.NotEqual(t, base, idempotency.RequestHash("PUT", "/api/v1/orders", []byte(`{"qty":1}`)))
	assert.NotEqual(t, base, idempotency.RequestHash("POST", "/api/v1/refunds", []byte(`{"qty":1}`)))
	assert.NotEqual(t, base, idempotency.RequestHash("POST", "/api/v1/orders", []byte(`{"qty":2}`)))
}
