package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant returns a context carrying the resolved tenant. The value
// lives exactly as long as the request context it is attached to.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext retrieves the tenant from the context.
// Returns nil, false if no tenant is set.
func FromContext(ctx context.Context) (*Tenant, bool) {
	tenant, ok := ctx.Value(contextKey{}).(*Tenant)
	if !ok || tenant == nil {
		return nil, false
	}
	return tenant, true
}

// IDFromContext retrieves just the tenant ID from the context.
// Returns the zero UUID and false if no tenant is set.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenant, ok := FromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return tenant.ID, true
}

// IsSet reports whether a tenant is present in the context.
func IsSet(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}

// SchemaFromContext returns the schema name for the tenant in the
// context, or DefaultSchema when no tenant is set.
func SchemaFromContext(ctx context.Context) string {
	tenant, ok := FromContext(ctx)
	if !ok {
		return DefaultSchema
	}
	return SchemaName(tenant.ID)
}

// MustFromContext retrieves the tenant from the context and panics if
// absent. Use only in handlers that cannot run without a tenant.
func MustFromContext(ctx context.Context) *Tenant {
	tenant, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return tenant
}

// LoggerExtractor returns a context extractor for the logger that
// attaches the active tenant ID to every log record.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
