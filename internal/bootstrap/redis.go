package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	infraredis "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/redis"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/config"
)

// SetupRedis returns nil when the shared site cache is disabled.
func SetupRedis(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, using in-process site cache")
		return nil, nil
	}

	client, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	log.Info("Connected to Redis", infralogger.String("address", cfg.Redis.Address))
	return client, nil
}
