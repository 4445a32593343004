package tenant_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poskit/poskit/pkg/tenant"
)

func TestSchemaName(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("0b9b0b66-9e2a-4f5e-9c0f-3b8f0a2f9d11")
	got := tenant.SchemaName(id)

	assert.Equal(t, "company_0b9b0b66_9e2a_4f5e_9c0f_3b8f0a2f9d11", got)
	assert.True(t, tenant.ValidSchemaName(got), "derived schema names must pass the allow-list")
	assert.True(t, tenant.IsCompanySchema(got))
	require.LessOrEqual(t, len(got), 63)
}

func TestValidSchemaName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema string
		want   bool
	}{
		{"plain", "public", true},
		{"company schema", "company_abc_123", true},
		{"dashes allowed", "tenant-a", true},
		{"empty", "", false},
		{"sql injection semicolon", "public; DROP TABLE users", false},
		{"sql comment", "public--", false},
		{"quote", `tenant"x`, false},
		{"space", "two words", false},
		{"too long", strings.Repeat("a", 64), false},
		{"max length ok", strings.Repeat("a", 63), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tenant.ValidSchemaName(tt.schema))
		})
	}
}
