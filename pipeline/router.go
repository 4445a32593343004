package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/poskit/poskit/pkg/logger"
	"github.com/poskit/poskit/pkg/requestid"
)

type routerConfig struct {
	log          *slog.Logger
	healthChecks []func(context.Context) error
}

// RouterOption configures the router assembly.
type RouterOption func(*routerConfig)

// WithLogger sets the logger used by the health endpoint.
func WithLogger(log *slog.Logger) RouterOption {
	return func(c *routerConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHealthChecks registers readiness probes (database, redis) for the
// /health endpoint.
func WithHealthChecks(checks ...func(context.Context) error) RouterOption {
	return func(c *routerConfig) {
		c.healthChecks = append(c.healthChecks, checks...)
	}
}

// NewRouter assembles the HTTP surface: request-ID correlation on
// everything, an unguarded /health endpoint, and the pipeline wrapped
// around the routes the mount callback registers.
func NewRouter(p Pipeline, mount func(chi.Router), opts ...RouterOption) *chi.Mux {
	cfg := &routerConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	// Health stays outside the pipeline: probes must answer even when
	// rate limits are exhausted.
	r.Get("/health", healthHandler(cfg.log, cfg.healthChecks))

	r.Group(func(api chi.Router) {
		api.Use(p.Wrap)
		mount(api)
	})

	return r
}

// healthHandler answers liveness when no probes are registered and
// readiness otherwise. Probes run with the request context so a hung
// dependency cannot pin the endpoint past the client's deadline.
func healthHandler(log *slog.Logger, probes []func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(probes) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, probe := range probes {
			if err := probe(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness probe failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
