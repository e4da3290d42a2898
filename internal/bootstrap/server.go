package bootstrap

import (
	"context"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	infragin "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/gin"
	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	inframetrics "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/metrics"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/api"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/config"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/metrics"
)

// HealthPinger is a backend /health can check.
type HealthPinger interface {
	Ping(ctx context.Context) error
}

// SetupHTTPServer creates the handler and the HTTP server with health
// checks for every connected dependency.
func SetupHTTPServer(
	cfg *config.Config,
	services *Services,
	backend HealthPinger,
	redisClient *redis.Client,
	log infralogger.Logger,
) *infragin.Server {
	handler := api.NewHandler(services.Compiler, services.Registry, cfg.Service.CacheControl, log)

	deps := api.Dependencies{
		Metrics:     promhttp.HandlerFor(services.Prometheus, promhttp.HandlerOpts{}),
		HTTPMetrics: inframetrics.NewHTTPMetrics(services.Prometheus, metrics.Namespace),
	}
	if backend != nil {
		deps.Elasticsearch = backend.Ping
	}
	if redisClient != nil {
		deps.Redis = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	return api.NewServer(handler, cfg, log, deps)
}
