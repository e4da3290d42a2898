// Package bootstrap wires the sitemap service together for the HTTP server
// and the command-line tool.
package bootstrap

import (
	infraconfig "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/config"
	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/config"
)

// DefaultConfigPath is used when CONFIG_PATH is unset.
const DefaultConfigPath = "config.yml"

// LoadConfig loads configuration from path, or from CONFIG_PATH when path
// is empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = infraconfig.GetConfigPath(DefaultConfigPath)
	}
	return config.Load(path)
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (infralogger.Logger, error) {
	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, err
	}
	return log.With(infralogger.String("service", cfg.Service.Name)), nil
}
