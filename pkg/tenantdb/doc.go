// Package tenantdb checks out database connections bound to a tenant's
// schema and resets them on release.
//
// On checkout the schema name is validated against a strict allow-list
// before being used to set the connection's search_path — an unvalidated
// identifier is never interpolated into an executable statement. Company
// schemas (company_*) are strictly isolated: their search_path contains
// only the company schema, with no fallback to the shared default
// namespace. Non-company schemas keep the default schema as a fallback.
//
// A schema name that fails validation does not fail the request: the
// provider logs a warning and falls back to the default schema. This is
// a deliberate availability-over-isolation trade-off inherited from the
// system this package guards; revisit it consciously before changing.
//
// On release the search_path is reset to the default before the
// connection returns to the pool, so a connection can never carry one
// tenant's schema binding into another tenant's request.
package tenantdb
