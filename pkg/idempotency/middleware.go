package idempotency

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poskit/poskit/pkg/logger"
	"github.com/poskit/poskit/pkg/tenant"
)

// DefaultHeader is the request header carrying the client's key.
const DefaultHeader = "Idempotency-Key"

// replayHeader marks responses served from a stored record.
const replayHeader = "Idempotency-Replayed"

type middlewareConfig struct {
	header      string
	publicPaths []string
	log         *slog.Logger
}

// MiddlewareOption configures the idempotency middleware.
type MiddlewareOption func(*middlewareConfig)

// WithHeader overrides the key header name.
func WithHeader(name string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if name != "" {
			c.header = name
		}
	}
}

// WithPublicPaths exempts path prefixes that serve unauthenticated
// traffic; requests there never deduplicate.
func WithPublicPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.publicPaths = append(c.publicPaths, paths...)
	}
}

// WithLogger sets the middleware logger.
func WithLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Middleware deduplicates mutating requests. It engages only when the
// request is a write, carries the key header, targets a non-public path
// and executes under a resolved tenant; everything else passes through
// untouched. Run it after tenant resolution so the tenant is in context.
func Middleware(store Store, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	if store == nil {
		panic(ErrStoreRequired)
	}

	cfg := &middlewareConfig{header: DefaultHeader, log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(cfg.header))
			if key == "" || !mutating(r.Method) || cfg.isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			t, ok := tenant.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			// Buffer the body up front: it feeds the request hash and a
			// losing duplicate must not half-consume it.
			body, err := io.ReadAll(r.Body)
			if err != nil {
				cfg.log.ErrorContext(ctx, "idempotency: reading request body", logger.Error(err))
				http.Error(w, `{"error": "failed to read request body"}`, http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reservation, record, err := store.Reserve(ctx, key, t.ID)
			if err != nil {
				// A broken store must not block writes; execute without
				// dedup and let retries surface as duplicates.
				cfg.log.ErrorContext(ctx, "idempotency: reservation failed, executing without dedup",
					logger.Error(err), slog.String("key", key))
				next.ServeHTTP(w, r)
				return
			}

			if record != nil {
				cfg.log.InfoContext(ctx, "idempotent replay",
					slog.String("key", key),
					slog.String("tenant_id", t.ID.String()),
					slog.Int("status", record.Status))
				w.Header().Set(replayHeader, "true")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(record.Status)
				_, _ = w.Write(record.Body)
				return
			}

			rec := newRecorder()
			func() {
				defer func() {
					if p := recover(); p != nil {
						// No response to record; free the pair so a
						// retry can execute, then let the outer
						// recovery turn the panic into a 500.
						_ = reservation.Release(ctx)
						panic(p)
					}
				}()
				next.ServeHTTP(rec, r.WithContext(ctx))
			}()

			if rec.status < http.StatusInternalServerError {
				err = reservation.Complete(ctx, &Record{
					Key:         key,
					TenantID:    t.ID,
					Path:        r.URL.Path,
					RequestHash: RequestHash(r.Method, r.URL.Path, body),
					Status:      rec.status,
					Body:        rec.body.Bytes(),
				})
			} else {
				// Server failures are retryable; do not pin them to the
				// key.
				err = reservation.Release(ctx)
			}
			if err != nil {
				cfg.log.ErrorContext(ctx, "idempotency: settling reservation",
					logger.Error(err), slog.String("key", key))
			}

			rec.flush(w)
		})
	}
}

func (c *middlewareConfig) isPublic(path string) bool {
	for _, p := range c.publicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// recorder buffers the downstream response so it can be persisted
// before reaching the client.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
	wrote  bool
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header), status: http.StatusOK}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) {
	if r.wrote {
		return
	}
	r.wrote = true
	r.status = status
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(b)
}

// flush replays the buffered response onto the real writer.
func (r *recorder) flush(w http.ResponseWriter) {
	for k, vals := range r.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.status)
	_, _ = w.Write(r.body.Bytes())
}
