package tenantdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poskit/poskit/pkg/logger"
	"github.com/poskit/poskit/pkg/tenant"
)

// Conn is the subset of *pgxpool.Conn the provider manages.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Release()
}

// Acquirer hands out connections. *pgxpool.Pool is adapted to this
// interface by NewProvider; tests substitute fakes.
type Acquirer interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Provider checks out schema-bound connections from a pool.
type Provider struct {
	pool Acquirer
	log  *slog.Logger
}

// NewProvider creates a provider over a pgx connection pool.
func NewProvider(pool *pgxpool.Pool, log *slog.Logger) *Provider {
	return NewProviderWithAcquirer(poolAcquirer{pool}, log)
}

// NewProviderWithAcquirer creates a provider over a custom connection
// source. Used by tests and non-pgxpool deployments.
func NewProviderWithAcquirer(pool Acquirer, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{pool: pool, log: log}
}

// GetConnection checks out a connection with its search_path set to the
// given schema. An invalid schema name falls back to the default schema
// after a warning; so does a failure to apply the search_path.
func (p *Provider) GetConnection(ctx context.Context, schema string) (Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if !tenant.ValidSchemaName(schema) {
		p.log.WarnContext(ctx, "invalid schema name, using default schema",
			slog.String("schema", schema))
		schema = tenant.DefaultSchema
	}

	if _, err := conn.Exec(ctx, searchPathSQL(schema)); err != nil {
		p.log.ErrorContext(ctx, "failed to set search_path, using default schema",
			slog.String("schema", schema), logger.Error(err))
		if _, err := conn.Exec(ctx, searchPathSQL(tenant.DefaultSchema)); err != nil {
			conn.Release()
			return nil, fmt.Errorf("reset search_path to default: %w", err)
		}
	}

	return conn, nil
}

// GetAnyConnection checks out a connection bound to the default schema.
func (p *Provider) GetAnyConnection(ctx context.Context) (Conn, error) {
	return p.GetConnection(ctx, tenant.DefaultSchema)
}

// GetTenantConnection checks out a connection bound to the schema of the
// tenant in the context, or the default schema when no tenant is set.
func (p *Provider) GetTenantConnection(ctx context.Context) (Conn, error) {
	return p.GetConnection(ctx, tenant.SchemaFromContext(ctx))
}

// Release resets the connection's search_path to the default schema and
// returns it to the pool. The reset is what prevents one tenant's schema
// binding from leaking to the connection's next borrower.
func (p *Provider) Release(ctx context.Context, conn Conn) {
	if conn == nil {
		return
	}
	if _, err := conn.Exec(ctx, searchPathSQL(tenant.DefaultSchema)); err != nil {
		p.log.WarnContext(ctx, "failed to reset search_path on release", logger.Error(err))
	}
	conn.Release()
}

// searchPathSQL composes the SET search_path statement for a validated
// schema. Company schemas get no public fallback; everything else keeps
// the default schema as a second entry.
func searchPathSQL(schema string) string {
	if schema == tenant.DefaultSchema {
		return "SET search_path TO " + tenant.DefaultSchema
	}
	if tenant.IsCompanySchema(schema) {
		return "SET search_path TO " + schema
	}
	return "SET search_path TO " + schema + ", " + tenant.DefaultSchema
}

// poolAcquirer adapts *pgxpool.Pool to the Acquirer interface.
type poolAcquirer struct {
	pool *pgxpool.Pool
}

func (a poolAcquirer) Acquire(ctx context.Context) (Conn, error) {
	return a.pool.Acquire(ctx)
}
