package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/poskit/poskit/pkg/logger"
)

// rejection is the machine-readable 429 body.
type rejection struct {
	Error      string `json:"error"`
	Limit      int    `json:"limit"`
	LimitType  string `json:"limit_type"`
	RetryAfter int    `json:"retry_after"`
}

const (
	limitTypeIP     = "IP"
	limitTypeTenant = "tenant"
)

type middlewareConfig struct {
	skipPaths []string
	log       *slog.Logger
}

// MiddlewareOption configures the limiter middleware.
type MiddlewareOption func(*middlewareConfig)

// WithSkipPaths exempts path prefixes (health checks, auth discovery,
// public paths) from the general limiter.
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithLogger sets the logger for rejection warnings and store failures.
func WithLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// General creates the general admission middleware. The caller's
// IP-derived key is checked first; when the request carries a tenant
// identifier, the tenant-derived key must pass as well. Store failures
// fail open: an unavailable limiter must not take the API down with it.
func General(ipLimiter, tenantLimiter *TokenBucket, tenantKey KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	ipKey := IPKey()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if !allow(cfg, ipLimiter, ipKey(r), limitTypeIP, w, r) {
				return
			}

			if key := tenantKey(r); key != "" {
				if !allow(cfg, tenantLimiter, key, limitTypeTenant, w, r) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Auth creates the authentication admission middleware: stricter,
// per-path-category limits keyed by client IP. Paths outside the login
// and registration categories pass through untouched.
func Auth(login, register *TokenBucket, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	ipKey := IPKey()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var limiter *TokenBucket
			switch {
			case isLoginPath(r.URL.Path):
				limiter = login
			case isRegisterPath(r.URL.Path):
				limiter = register
			default:
				next.ServeHTTP(w, r)
				return
			}

			if !allow(cfg, limiter, ipKey(r), limitTypeIP, w, r) {
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow runs one limiter check, writing the 429 response on rejection.
// Returns whether the request may proceed.
func allow(cfg *middlewareConfig, limiter *TokenBucket, key, limitType string, w http.ResponseWriter, r *http.Request) bool {
	if limiter == nil || key == "" {
		return true
	}

	result, err := limiter.Allow(r.Context(), key)
	if err != nil {
		cfg.log.ErrorContext(r.Context(), "rate limit store failure, admitting request",
			logger.Error(err), slog.String("key", key))
		return true
	}

	if result.Allowed {
		return true
	}

	cfg.log.WarnContext(r.Context(), "rate limit exceeded",
		slog.String("key", key),
		slog.String("limit_type", limitType),
		slog.String("path", r.URL.Path))

	retryAfter := int(limiter.Window() / time.Second)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(rejection{
		Error:      "Rate limit exceeded",
		Limit:      result.Limit,
		LimitType:  limitType,
		RetryAfter: retryAfter,
	})
	return false
}

func isLoginPath(path string) bool {
	return strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/signin")
}

func isRegisterPath(path string) bool {
	return strings.HasSuffix(path, "/auth/register") || strings.HasSuffix(path, "/auth/signup")
}
