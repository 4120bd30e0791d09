package container

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/handlers"
	"github.com/serroba/shortlinks/internal/health"
	"github.com/serroba/shortlinks/internal/history"
	"github.com/serroba/shortlinks/internal/middleware"
	"github.com/serroba/shortlinks/internal/ratelimit"
	"github.com/serroba/shortlinks/internal/shortener"
	"github.com/serroba/shortlinks/internal/store"
	"go.uber.org/zap"
)

// RateLimitPackage provides the policy limiter backed by Redis, or memory for the memory backend.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		opts := do.MustInvoke[*Options](i)

		var rs ratelimit.Store = store.NewWindowMemoryStore()
		if opts.Store != BackendMemory {
			rs = store.NewWindowRedisStore(do.MustInvoke[*RedisConn](i).Client)
		}

		policy := ratelimit.NewPolicyBuilder().
			AddLimit(ratelimit.ScopeRead, int64(opts.ReadLimit), time.Minute).
			AddLimit(ratelimit.ScopeWrite, int64(opts.WriteLimit), time.Minute).
			Build()

		return ratelimit.NewPolicyLimiter(rs, policy), nil
	})
}

// HTTPPackage provides the router and the API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(chimw.RequestID, chimw.Recoverer)

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)
		checks := map[string]health.Checker{}

		if opts.Store != BackendMemory {
			checks["redis"] = health.RedisChecker(do.MustInvoke[*RedisConn](i).Client)
		}

		if opts.Store == BackendPostgres {
			checks["postgres"] = health.PostgresChecker(do.MustInvoke[*PostgresConn](i).Pool)
		}

		return health.NewHandler(checks), nil
	})

	do.Provide(i, func(i *do.Injector) (*handlers.LinkHandler, error) {
		opts := do.MustInvoke[*Options](i)

		return handlers.NewLinkHandler(
			opts.baseURL(),
			do.MustInvoke[*shortener.Shortener](i),
			do.MustInvoke[*shortener.Resolver](i),
			do.MustInvoke[*shortener.DeletionCoordinator](i),
			do.MustInvoke[*history.Log](i),
			do.MustInvoke[shortener.LinkStore](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		clients := middleware.NewClientResolver(opts.TrustProxy)

		api := humachi.New(router, huma.DefaultConfig("Short Links", "1.0.0"))
		api.UseMiddleware(
			middleware.AccessLog(clients, logger),
			middleware.RateLimiter(
				api,
				do.MustInvoke[*ratelimit.PolicyLimiter](i),
				ratelimit.NewOperationScopeResolver(),
				clients,
				logger,
			),
		)

		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))
		handlers.RegisterRoutes(api, do.MustInvoke[*handlers.LinkHandler](i), handlers.RouteLimits{
			CreatePerMinute: int64(opts.CreateLimit),
			DeletePerMinute: int64(opts.DeleteLimit),
		})

		return api, nil
	})
}
