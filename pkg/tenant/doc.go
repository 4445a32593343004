// Package tenant resolves and enforces per-company tenant isolation for
// HTTP requests.
//
// A tenant is a company identified by a UUID and mapped 1:1 to a
// PostgreSQL schema (company_<uuid>). The Middleware extracts the tenant
// identifier from the request — either from the X-Tenant-ID header or
// from the bearer token's tenant_id claim, depending on configuration —
// validates the company and the caller's membership in it, and stores
// the tenant in the request context for everything downstream.
//
// Validation order and status codes:
//
//	missing/malformed identifier  -> 400
//	unknown or inactive company   -> 404
//	no authenticated principal    -> 401
//	no active membership          -> 403
//	panic in downstream handler   -> 500
//
// The tenant is carried as a context value scoped to the request's
// context, so it cannot leak to another request: when the request's
// context dies, the tenant value dies with it. The middleware still
// installs a recover guard so a downstream panic is answered with a 500
// after the response is settled.
package tenant
