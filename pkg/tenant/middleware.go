package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/poskit/poskit/pkg/auth"
	"github.com/poskit/poskit/pkg/logger"
)

// Middleware creates HTTP middleware that resolves the request's company
// tenant, validates the caller's membership, and stores the tenant in
// the request context before invoking the downstream handler.
//
// Resolution is skipped for the configured public path prefixes. On any
// validation failure the downstream handler is never invoked. A panic in
// the downstream handler is answered with 500; because the tenant lives
// in the request context, it is gone once the request unwinds no matter
// how it terminates.
func Middleware(resolver Resolver, companies Provider, memberships MembershipProvider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:    NewInMemoryCache(),
		cacheTTL: 5 * time.Minute,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()

			identifier, err := resolver.Resolve(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			if identifier == "" {
				writeError(w, http.StatusBadRequest, ErrMissingIdentifier)
				return
			}

			companyID, err := uuid.Parse(identifier)
			if err != nil {
				cfg.log.WarnContext(ctx, "invalid tenant identifier",
					slog.String("identifier", identifier), slog.String("path", r.URL.Path))
				writeError(w, http.StatusBadRequest, ErrInvalidIdentifier)
				return
			}

			company, err := lookupCompany(ctx, cfg, companies, companyID)
			if err != nil {
				if errors.Is(err, ErrTenantNotFound) || errors.Is(err, ErrInactiveTenant) {
					writeError(w, http.StatusNotFound, ErrTenantNotFound)
					return
				}
				cfg.log.ErrorContext(ctx, "company lookup failed", logger.Error(err))
				writeError(w, http.StatusInternalServerError, errors.New("internal server error processing tenant context"))
				return
			}

			user, ok := auth.UserFromContext(ctx)
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrNotAuthenticated)
				return
			}

			held, err := memberships.ActiveMemberships(ctx, user.ID)
			if err != nil {
				cfg.log.ErrorContext(ctx, "membership lookup failed", logger.Error(err))
				writeError(w, http.StatusInternalServerError, errors.New("internal server error processing tenant context"))
				return
			}

			now := cfg.now()
			authorized := false
			for _, m := range held {
				if m.Authorizes(companyID, now) {
					authorized = true
					break
				}
			}
			if !authorized {
				cfg.log.WarnContext(ctx, "membership check failed",
					slog.String("user_id", user.ID.String()),
					slog.String("company_id", companyID.String()))
				writeError(w, http.StatusForbidden, ErrNoMembership)
				return
			}

			// Downstream panics must still produce a response; the tenant
			// value itself needs no cleanup, it dies with the request context.
			defer func() {
				if rec := recover(); rec != nil {
					cfg.log.ErrorContext(ctx, "panic processing tenant-scoped request",
						slog.Any("panic", rec), slog.String("path", r.URL.Path))
					writeError(w, http.StatusInternalServerError, errors.New("internal server error processing tenant context"))
				}
			}()

			next.ServeHTTP(w, r.WithContext(WithTenant(ctx, company)))
		})
	}
}

// RequireTenant ensures a tenant is present in the context. Useful for
// protecting routes mounted outside the resolution middleware.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsSet(r.Context()) {
				writeError(w, http.StatusBadRequest, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func lookupCompany(ctx context.Context, cfg *config, companies Provider, id uuid.UUID) (*Tenant, error) {
	key := id.String()

	if cached, ok := cfg.cache.Get(ctx, key); ok {
		if !cached.Active {
			return nil, ErrInactiveTenant
		}
		return cached, nil
	}

	company, err := companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !company.Active {
		return nil, ErrInactiveTenant
	}

	cfg.cache.Set(ctx, key, company, cfg.cacheTTL)
	return company, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
