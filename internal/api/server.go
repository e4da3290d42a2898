package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	infragin "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/gin"
	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/metrics"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/config"
)

// Pinger checks a dependency for /health.
type Pinger func(ctx context.Context) error

// Dependencies are the collaborators the server reports and exposes.
type Dependencies struct {
	Elasticsearch Pinger
	// Redis is nil when the shared cache is disabled.
	Redis   Pinger
	Metrics http.Handler
	// HTTPMetrics is nil when request metrics are not collected.
	HTTPMetrics *metrics.HTTPMetrics
}

// NewServer creates the HTTP server using the infrastructure gin package.
func NewServer(handler *Handler, cfg *config.Config, log logger.Logger, deps Dependencies) *infragin.Server {
	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithCORS(infragin.CORSConfig{
			Enabled:        cfg.CORS.Enabled,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAge:         time.Duration(cfg.CORS.MaxAge) * time.Second,
		}).
		WithRoutes(func(router *gin.Engine) {
			if deps.HTTPMetrics != nil {
				router.Use(deps.HTTPMetrics.Middleware())
			}
			SetupServiceRoutes(router, handler, deps.Metrics)
		})

	if deps.Elasticsearch != nil {
		builder.WithElasticsearchHealthCheck(deps.Elasticsearch)
	}
	if deps.Redis != nil {
		builder.WithRedisHealthCheck(deps.Redis)
	}

	return builder.Build()
}
