package ratelimit

import (
	"net/http"

	"github.com/poskit/poskit/pkg/clientip"
	"github.com/poskit/poskit/pkg/tenant"
)

// KeyFunc extracts a rate-limit key from an HTTP request. An empty key
// means no limit applies for this dimension.
type KeyFunc func(*http.Request) string

// IPKey derives the key from the caller's IP address.
func IPKey() KeyFunc {
	return func(r *http.Request) string {
		if ip := clientip.GetIP(r); ip != "" {
			return "ip:" + ip
		}
		return ""
	}
}

// TenantKey derives the key from the tenant identifier carried by the
// request. Rate limiting runs before tenant resolution, so the
// identifier is taken from the request as-is — the resolver validates
// it later; here it is only a bucket name.
func TenantKey(resolver tenant.Resolver) KeyFunc {
	return func(r *http.Request) string {
		id, err := resolver.Resolve(r)
		if err != nil || id == "" {
			return ""
		}
		return "tenant:" + id
	}
}
