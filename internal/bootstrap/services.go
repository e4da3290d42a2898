package bootstrap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/retry"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/config"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/harvest"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/metrics"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/registry"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/sitemap"
)

const maxRetryDelay = 5 * time.Second

// Backend is everything the pipeline reads from the content store.
type Backend interface {
	registry.Source
	harvest.Backend
}

// Services holds the wired pipeline components.
type Services struct {
	Registry   *registry.Registry
	Harvester  *harvest.Harvester
	Compiler   *sitemap.Compiler
	Metrics    *metrics.Metrics
	Prometheus *prometheus.Registry
}

// SetupServices builds the registry, harvester and compiler. redisClient
// may be nil.
func SetupServices(cfg *config.Config, backend Backend, redisClient *redis.Client, log infralogger.Logger) *Services {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	var cache registry.Cache
	if redisClient != nil {
		cache = registry.NewRedisCache(redisClient, cfg.Redis.KeyPrefix)
	} else {
		cache = registry.NewMemoryCache(time.Now)
	}

	sites := registry.New(backend, log,
		registry.WithCache(cache, cfg.SiteCache.TTL),
		registry.WithRecorder(m),
	)

	harvester := harvest.New(backend, HarvestConfig(cfg), log, harvest.WithRecorder(m))

	compiler := sitemap.New(sites, harvester, log,
		sitemap.WithScheme(cfg.Service.PublicScheme),
		sitemap.WithRecorder(m),
	)

	return &Services{
		Registry:   sites,
		Harvester:  harvester,
		Compiler:   compiler,
		Metrics:    m,
		Prometheus: promRegistry,
	}
}

// HarvestConfig maps service configuration onto the harvester.
func HarvestConfig(cfg *config.Config) harvest.Config {
	h := cfg.Harvest
	return harvest.Config{
		PageSize:     h.PageSize,
		FetchTimeout: h.FetchTimeout,
		Retry: retry.Config{
			MaxAttempts:  h.MaxAttempts,
			InitialDelay: h.RetryInitialDelay,
			MaxDelay:     maxRetryDelay,
			Multiplier:   2,
		},
		RequestsPerSecond: h.RequestsPerSecond,
		Burst:             h.Burst,
		DeclaredField:     h.DeclaredField,
		DeclaredValue:     h.DeclaredValue,
		Families: domain.TemplateFamilies{
			Author:   h.WildcardTemplates.Author,
			Content:  h.WildcardTemplates.Content,
			Industry: h.WildcardTemplates.Industry,
		},
	}
}
