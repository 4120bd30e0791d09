package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlinks/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware applying the limiter's scope policy
// and any per-route limits found in the operation's EndpointConfig.
//
// A failing rate limit store lets the request through: availability of
// redirects matters more than enforcing limits during an outage.
func RateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	clients ClientResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		key := clients.Key(ctx)
		path := operationPath(ctx)

		exceeded, err := limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		if err == nil && exceeded == nil && cfg != nil && len(cfg.Limits) > 0 {
			exceeded, err = limiter.AllowRoute(ctx.Context(), key, path, cfg.Limits)
		}

		if err != nil {
			logger.Error("rate limit check failed, allowing request", zap.String("path", path), zap.Error(err))
			next(ctx)

			return
		}

		if exceeded != nil {
			logger.Warn("rate limit exceeded",
				zap.String("path", path),
				zap.String("method", ctx.Method()),
				zap.String("scope", string(exceeded.Scope)),
				zap.Int64("count", exceeded.Count),
				zap.Int64("max", exceeded.Config.Max),
				zap.Duration("window", exceeded.Config.Window),
				zap.String("client_ip", clients.IP(ctx)),
			)

			retryAfter := max(int(exceeded.Config.Window.Seconds()), 1)
			ctx.SetHeader("Retry-After", strconv.Itoa(retryAfter))

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, fmt.Sprintf(
				"rate limit exceeded: %d/%d requests in %s",
				exceeded.Count, exceeded.Config.Max, exceeded.Config.Window,
			))

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}
