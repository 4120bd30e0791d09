package middleware

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// AccessLog logs one line per request once the handler has written its response.
func AccessLog(clients ClientResolver, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", ctx.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", clients.IP(ctx)),
		}

		if id := chimw.GetReqID(ctx.Context()); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		logger.Info("request", fields...)
	}
}
