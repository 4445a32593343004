package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poskit/poskit/pipeline"
	"github.com/poskit/poskit/pkg/auth"
	"github.com/poskit/poskit/pkg/config"
	"github.com/poskit/poskit/pkg/httpserver"
	"github.com/poskit/poskit/pkg/idempotency"
	"github.com/poskit/poskit/pkg/jwt"
	"github.com/poskit/poskit/pkg/logger"
	"github.com/poskit/poskit/pkg/pg"
	"github.com/poskit/poskit/pkg/ratelimit"
	"github.com/poskit/poskit/pkg/redis"
	"github.com/poskit/poskit/pkg/requestid"
	"github.com/poskit/poskit/pkg/tenant"
	"github.com/poskit/poskit/pkg/tenantdb"
)

type appConfig struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	JWTSecret string `env:"JWT_SECRET,required"`

	HTTP        httpserver.Config
	PG          pg.Config
	Redis       redis.Config
	Tenant      tenant.Config
	RateLimit   ratelimit.Config
	AuthLimit   ratelimit.AuthConfig
	Idempotency idempotency.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	logOpts := []logger.Option{
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	}
	if cfg.AppEnv == "production" {
		logOpts = append(logOpts, logger.WithJSONFormatter())
	}
	log := logger.New(logOpts...)
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	healthChecks := []func(context.Context) error{pg.Healthcheck(pool)}

	var rlStore ratelimit.Store
	if cfg.RateLimit.Store == "redis" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		rlStore = ratelimit.NewRedisStore(client)
		healthChecks = append(healthChecks, redis.Healthcheck(client))
	} else {
		rlStore = ratelimit.NewMemoryStore()
	}
	defer rlStore.Close()

	tokens, err := jwt.NewFromString(cfg.JWTSecret)
	if err != nil {
		return err
	}

	resolver := cfg.Tenant.NewResolver(tokens)

	p, cleanup, err := buildPipeline(ctx, cfg, pool, rlStore, tokens, resolver, log)
	if err != nil {
		return err
	}
	defer cleanup()

	provider := tenantdb.NewProvider(pool, log)

	router := pipeline.NewRouter(p, mountAPI(provider),
		pipeline.WithLogger(log),
		pipeline.WithHealthChecks(healthChecks...),
	)

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}

func buildPipeline(
	ctx context.Context,
	cfg appConfig,
	pool *pgxpool.Pool,
	rlStore ratelimit.Store,
	tokens *jwt.Service,
	resolver tenant.Resolver,
	log *slog.Logger,
) (pipeline.Pipeline, func(), error) {
	var p pipeline.Pipeline
	cleanup := func() {}

	if cfg.AuthLimit.Enabled {
		login, err := ratelimit.NewTokenBucket(rlStore, cfg.AuthLimit.LoginLimit, cfg.AuthLimit.LoginWindow)
		if err != nil {
			return p, cleanup, err
		}
		register, err := ratelimit.NewTokenBucket(rlStore, cfg.AuthLimit.RegisterLimit, cfg.AuthLimit.RegisterWindow)
		if err != nil {
			return p, cleanup, err
		}
		p.AuthLimiter = ratelimit.Auth(login, register, ratelimit.WithLogger(log))
	}

	if cfg.RateLimit.Enabled {
		ip, err := ratelimit.NewTokenBucket(rlStore, cfg.RateLimit.IPLimit, cfg.RateLimit.IPWindow)
		if err != nil {
			return p, cleanup, err
		}
		perTenant, err := ratelimit.NewTokenBucket(rlStore, cfg.RateLimit.TenantLimit, cfg.RateLimit.TenantWindow)
		if err != nil {
			return p, cleanup, err
		}
		// Auth and public prefixes are exempt here; the auth limiter
		// owns their budget.
		skip := append([]string{"/health"}, cfg.Tenant.PublicPaths...)
		p.GeneralLimiter = ratelimit.General(ip, perTenant, ratelimit.TenantKey(resolver),
			ratelimit.WithSkipPaths(skip...),
			ratelimit.WithLogger(log),
		)
	}

	p.Authenticator = auth.Middleware(tokens)

	store := tenant.NewPgStore(pool)
	p.TenantResolver = tenant.Middleware(resolver, store, store,
		tenant.WithSkipPaths(cfg.Tenant.PublicPaths...),
		tenant.WithCache(tenant.NewInMemoryCacheWithSize(cfg.Tenant.CacheSize)),
		tenant.WithCacheTTL(cfg.Tenant.CacheTTL),
		tenant.WithLogger(log),
	)

	if cfg.Idempotency.Enabled {
		idemStore := idempotency.NewPgStore(pool, idempotency.WithPgTTL(cfg.Idempotency.TTL))

		cleanupCtx, cancel := context.WithCancel(ctx)
		go idemStore.RunCleanup(cleanupCtx, cfg.Idempotency.CleanupInterval, log)
		cleanup = cancel

		p.Idempotency = idempotency.Middleware(idemStore,
			idempotency.WithPublicPaths(cfg.Tenant.PublicPaths...),
			idempotency.WithLogger(log),
		)
	}

	return p, cleanup, nil
}

// mountAPI registers the tenant-scoped routes. The tenant endpoint
// doubles as a smoke test for schema-bound connections.
func mountAPI(provider *tenantdb.Provider) func(chi.Router) {
	return func(api chi.Router) {
		api.Get("/api/v1/tenant", func(w http.ResponseWriter, r *http.Request) {
			t := tenant.MustFromContext(r.Context())

			conn, err := provider.GetTenantConnection(r.Context())
			if err != nil {
				http.Error(w, `{"error": "tenant storage unavailable"}`, http.StatusInternalServerError)
				return
			}
			defer provider.Release(r.Context(), conn)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     t.ID,
				"name":   t.Name,
				"schema": tenant.SchemaName(t.ID),
			})
		})
	}
}
