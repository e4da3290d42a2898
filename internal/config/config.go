package config

import (
	"fmt"
	"time"

	infraconfig "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/config"
	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/profiling"
)

// Config holds all configuration for the sitemap service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Redis         RedisConfig         `yaml:"redis"`
	SiteCache     SiteCacheConfig     `yaml:"site_cache"`
	Harvest       HarvestConfig       `yaml:"harvest"`
	Logging       LoggingConfig       `yaml:"logging"`
	CORS          CORSConfig          `yaml:"cors"`
	Profiling     profiling.Config    `yaml:"profiling"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port" env:"SITEMAP_PORT"`
	Debug   bool   `yaml:"debug" env:"SITEMAP_DEBUG"`
	// PublicScheme is the scheme of every emitted URL.
	PublicScheme string `yaml:"public_scheme" env:"SITEMAP_PUBLIC_SCHEME"`
	CacheControl string `yaml:"cache_control"`
}

// ElasticsearchConfig holds the content backend connection and indices.
type ElasticsearchConfig struct {
	URL               string `yaml:"url" env:"ELASTICSEARCH_URL"`
	Username          string `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	Password          string `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	APIKey            string `yaml:"api_key" env:"ELASTICSEARCH_API_KEY"`
	MaxRetries        int    `yaml:"max_retries"`
	ContentIndex      string `yaml:"content_index" env:"SITEMAP_CONTENT_INDEX"`
	SitesIndex        string `yaml:"sites_index" env:"SITEMAP_SITES_INDEX"`
	SiteSettingsIndex string `yaml:"site_settings_index" env:"SITEMAP_SITE_SETTINGS_INDEX"`
}

// RedisConfig enables the shared site cache.
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Address   string `yaml:"address" env:"REDIS_ADDRESS"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SiteCacheConfig controls site descriptor caching. A zero TTL keeps
// entries for the life of the process.
type SiteCacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"SITEMAP_SITE_CACHE_TTL"`
}

// HarvestConfig tunes content harvesting.
type HarvestConfig struct {
	PageSize     int           `yaml:"page_size" env:"SITEMAP_PAGE_SIZE"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"SITEMAP_FETCH_TIMEOUT"`
	// MaxAttempts per page, counting the first. 1 disables retries.
	MaxAttempts       int                     `yaml:"max_attempts" env:"SITEMAP_FETCH_MAX_ATTEMPTS"`
	RetryInitialDelay time.Duration           `yaml:"retry_initial_delay"`
	RequestsPerSecond float64                 `yaml:"requests_per_second"`
	Burst             int                     `yaml:"burst"`
	WildcardTemplates WildcardTemplatesConfig `yaml:"wildcard_templates"`
	DeclaredField     string                  `yaml:"declared_field"`
	DeclaredValue     any                     `yaml:"declared_value"`
}

// WildcardTemplatesConfig lists template identifiers per family.
type WildcardTemplatesConfig struct {
	Author   []string `yaml:"author"`
	Content  []string `yaml:"content"`
	Industry []string `yaml:"industry"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS"`
	MaxAge         int      `yaml:"max_age"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "sitemap"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8095
	}
	if cfg.Service.PublicScheme == "" {
		cfg.Service.PublicScheme = "https"
	}
	if cfg.Service.CacheControl == "" {
		cfg.Service.CacheControl = "public, max-age=3600"
	}

	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = "http://localhost:9200"
	}
	if cfg.Elasticsearch.MaxRetries == 0 {
		cfg.Elasticsearch.MaxRetries = 3
	}
	if cfg.Elasticsearch.ContentIndex == "" {
		cfg.Elasticsearch.ContentIndex = "content"
	}
	if cfg.Elasticsearch.SitesIndex == "" {
		cfg.Elasticsearch.SitesIndex = "sites"
	}
	if cfg.Elasticsearch.SiteSettingsIndex == "" {
		cfg.Elasticsearch.SiteSettingsIndex = "site_settings"
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "sitemap:site:"
	}

	setHarvestDefaults(&cfg.Harvest)

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	cfg.Profiling.SetDefaults()

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
}

func setHarvestDefaults(h *HarvestConfig) {
	if h.PageSize == 0 {
		h.PageSize = 100
	}
	if h.FetchTimeout == 0 {
		h.FetchTimeout = 10 * time.Second
	}
	if h.MaxAttempts == 0 {
		h.MaxAttempts = 1
	}
	if h.RetryInitialDelay == 0 {
		h.RetryInitialDelay = 250 * time.Millisecond
	}
	if h.Burst == 0 {
		h.Burst = 10
	}
	if h.DeclaredField == "" {
		h.DeclaredField = "include_in_sitemap"
	}
	if h.DeclaredValue == nil {
		h.DeclaredValue = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Service.PublicScheme != "http" && c.Service.PublicScheme != "https" {
		return &infraconfig.ValidationError{Field: "service.public_scheme", Message: "must be http or https"}
	}
	if err := infraconfig.ValidateRequired("elasticsearch.url", c.Elasticsearch.URL); err != nil {
		return err
	}
	if c.Harvest.PageSize < 1 || c.Harvest.PageSize > 10000 {
		return &infraconfig.ValidationError{Field: "harvest.page_size", Message: "must be between 1 and 10000"}
	}
	if c.Harvest.MaxAttempts < 1 {
		return &infraconfig.ValidationError{Field: "harvest.max_attempts", Message: "must be at least 1"}
	}
	if c.Harvest.RequestsPerSecond < 0 {
		return &infraconfig.ValidationError{Field: "harvest.requests_per_second", Message: "must not be negative"}
	}
	if c.SiteCache.TTL < 0 {
		return &infraconfig.ValidationError{Field: "site_cache.ttl", Message: "must not be negative"}
	}
	if c.Redis.Enabled {
		if err := infraconfig.ValidateRequired("redis.address", c.Redis.Address); err != nil {
			return err
		}
	}
	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return infraconfig.ValidateLogFormat(c.Logging.Format)
}
