package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/poskit/poskit/pkg/jwt"
)

// Middleware authenticates the bearer token and stores the principal in
// the request context. Requests without a valid token proceed
// anonymously; layers that require a principal answer 401 themselves.
func Middleware(tokens *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			var claims jwt.Claims
			if err := tokens.Parse(token, &claims); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &User{ID: userID, Active: true})))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
