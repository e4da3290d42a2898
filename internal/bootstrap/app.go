package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/profiling"
)

// Start initializes the sitemap service and serves until SIGINT or SIGTERM.
func Start(configPath string) error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting sitemap service",
		infralogger.String("name", cfg.Service.Name),
		infralogger.String("version", cfg.Service.Version),
		infralogger.Int("port", cfg.Service.Port),
		infralogger.Bool("debug", cfg.Service.Debug),
	)

	// Phase 0: Optional profiling
	if pprofServer := profiling.StartPprofServer(cfg.Profiling, log); pprofServer != nil {
		defer func() { _ = pprofServer.Close() }()
	}
	profiler, err := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, cfg.Profiling, log)
	if err != nil {
		log.Warn("Pyroscope failed to start", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Phase 2: Connect backends
	backend, err := SetupElasticsearch(ctx, cfg, log)
	if err != nil {
		return err
	}

	redisClient, err := SetupRedis(ctx, cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				log.Error("Failed to close Redis client", infralogger.Error(closeErr))
			}
		}()
	}

	// Phase 3: Wire the pipeline and serve
	services := SetupServices(cfg, backend, redisClient, log)
	server := SetupHTTPServer(cfg, services, backend, redisClient, log)

	if runErr := server.RunWithGracefulShutdown(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Sitemap service stopped")
	return nil
}
