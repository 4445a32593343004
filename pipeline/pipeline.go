package pipeline

import "net/http"

// Middleware is a standard net/http middleware.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares with the first argument outermost. Nil
// entries are skipped, so disabled stages drop out of the chain without
// conditional wiring at the call site.
func Chain(mws ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				next = mws[i](next)
			}
		}
		return next
	}
}

// Pipeline holds the cross-cutting stages in their mandated order.
// Admission control runs before any per-request work: the stricter auth
// limiter first, then the general limiter, then authentication, tenant
// resolution and write deduplication.
type Pipeline struct {
	AuthLimiter    Middleware
	GeneralLimiter Middleware
	Authenticator  Middleware
	TenantResolver Middleware
	Idempotency    Middleware
}

// Wrap applies the stages around next. Stage order is fixed; callers
// choose which stages exist, never where they sit.
func (p Pipeline) Wrap(next http.Handler) http.Handler {
	return Chain(
		p.AuthLimiter,
		p.GeneralLimiter,
		p.Authenticator,
		p.TenantResolver,
		p.Idempotency,
	)(next)
}
