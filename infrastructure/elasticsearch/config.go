package elasticsearch

import (
	"time"

	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/retry"
)

// Config holds Elasticsearch connection settings.
type Config struct {
	URL      string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username string `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	APIKey   string `env:"ELASTICSEARCH_API_KEY"  yaml:"api_key"`

	TLS TLSConfig `yaml:"tls"`

	// MaxRetries is the transport-level retry count for each request.
	MaxRetries  int           `env:"ELASTICSEARCH_MAX_RETRIES" yaml:"max_retries"`
	PingTimeout time.Duration `yaml:"ping_timeout"`

	// Connect governs how long startup waits for the cluster. Zero values
	// fall back to five attempts starting at two seconds.
	Connect retry.Config `yaml:"-"`
}

// TLSConfig holds TLS settings for HTTPS clusters.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	CertFile           string `yaml:"cert_file"`
	KeyFile            string `yaml:"key_file"`
	CAFile             string `yaml:"ca_file"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.Connect.MaxAttempts == 0 {
		c.Connect = retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
			IsRetryable:  func(error) bool { return true },
		}
	}
}
