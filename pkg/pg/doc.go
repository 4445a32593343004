// Package pg bootstraps the PostgreSQL layer: a pgxpool connection pool
// with startup retries, goose schema migrations, a health check closure
// and error classification helpers. The rest of the application only
// ever sees a *pgxpool.Pool.
package pg
