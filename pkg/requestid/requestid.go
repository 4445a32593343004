package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

// Header carries the correlation ID between client and server.
const Header = "X-Request-ID"

// maxLen caps client-supplied IDs so log lines stay bounded.
const maxLen = 64

// Middleware guarantees a correlation ID on every request. A
// well-formed client-supplied ID is kept so callers can correlate
// across systems; a missing or malformed one is replaced with a fresh
// UUID. The ID travels in the request context and is echoed in the
// response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !wellFormed(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

// wellFormed accepts IDs built from alphanumerics, '-', '_' and '.'.
func wellFormed(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch c := id[i]; {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}
