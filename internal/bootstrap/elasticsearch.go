package bootstrap

import (
	"context"
	"fmt"

	infraes "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/elasticsearch"
	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/config"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/elasticsearch"
)

// SetupElasticsearch connects to the cluster and returns the content and
// site backend built on it.
func SetupElasticsearch(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*elasticsearch.Client, error) {
	log.Info("Connecting to Elasticsearch", infralogger.String("url", cfg.Elasticsearch.URL))

	raw, err := infraes.NewClient(ctx, infraes.Config{
		URL:        cfg.Elasticsearch.URL,
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		APIKey:     cfg.Elasticsearch.APIKey,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connect elasticsearch: %w", err)
	}

	backend := elasticsearch.NewClient(raw, elasticsearch.Indices{
		Content:      cfg.Elasticsearch.ContentIndex,
		Sites:        cfg.Elasticsearch.SitesIndex,
		SiteSettings: cfg.Elasticsearch.SiteSettingsIndex,
	})

	log.Info("Successfully connected to Elasticsearch",
		infralogger.String("content_index", cfg.Elasticsearch.ContentIndex),
		infralogger.String("sites_index", cfg.Elasticsearch.SitesIndex),
	)
	return backend, nil
}
