// Package pipeline assembles the request-processing chain in its fixed,
// auditable order: authentication rate limiter, general rate limiter,
// authentication, tenant resolution, idempotency, then the application
// handler. The order is declared in one place rather than derived from
// registration side effects, so precedence is testable on its own.
package pipeline
