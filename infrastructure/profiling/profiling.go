// Package profiling starts the optional pprof endpoint and Pyroscope
// continuous profiling.
package profiling

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
)

const (
	defaultPprofAddr    = "localhost:6060"
	defaultPyroscopeURL = "http://pyroscope:4040"
	readHeaderTimeout   = 5 * time.Second
)

// Config enables profiling. Everything is off by default.
type Config struct {
	PprofEnabled bool `env:"ENABLE_PROFILING" yaml:"pprof_enabled"`
	// PprofAddr should stay on localhost.
	PprofAddr        string `env:"PPROF_ADDR"                  yaml:"pprof_addr"`
	PyroscopeEnabled bool   `env:"ENABLE_CONTINUOUS_PROFILING" yaml:"pyroscope_enabled"`
	PyroscopeURL     string `env:"PYROSCOPE_SERVER_URL"        yaml:"pyroscope_url"`
	Environment      string `env:"PYROSCOPE_ENVIRONMENT"       yaml:"environment"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.PprofAddr == "" {
		c.PprofAddr = defaultPprofAddr
	}
	if c.PyroscopeURL == "" {
		c.PyroscopeURL = defaultPyroscopeURL
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// NewPprofMux serves the standard /debug/pprof endpoints without touching
// http.DefaultServeMux.
func NewPprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartPprofServer serves pprof in the background and returns the server
// so the caller can shut it down. It returns nil when disabled.
func StartPprofServer(cfg Config, log logger.Logger) *http.Server {
	if !cfg.PprofEnabled {
		return nil
	}
	cfg.SetDefaults()

	srv := &http.Server{
		Addr:              cfg.PprofAddr,
		Handler:           NewPprofMux(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", cfg.PprofAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()
	return srv
}
