// Package registry resolves request hosts to site descriptors and caches
// them.
package registry

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
)

// Source is the site configuration source.
type Source interface {
	FindSiteByHost(ctx context.Context, host string) (*domain.SiteDescriptor, error)
	FindSiteByName(ctx context.Context, name string) (*domain.SiteDescriptor, error)
	SiteSettings(ctx context.Context, rootID, language string) (*domain.SiteSettings, error)
}

// CacheRecorder counts cache hits and misses.
type CacheRecorder interface {
	CacheResult(result string)
}

type nopRecorder struct{}

func (nopRecorder) CacheResult(string) {}

// loadTimeout bounds a shared configuration load. The load is detached from
// the caller that started it so other callers waiting on it are not failed
// by that caller's cancellation.
const loadTimeout = 30 * time.Second

// Cache lookup outcomes.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Registry is the Site & Language Registry.
type Registry struct {
	source   Source
	cache    Cache
	ttl      time.Duration
	log      logger.Logger
	recorder CacheRecorder
	group    singleflight.Group
}

// Option customizes a Registry.
type Option func(*Registry)

// WithCache replaces the default in-memory cache.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(r *Registry) {
		r.cache = c
		r.ttl = ttl
	}
}

// WithRecorder reports cache outcomes.
func WithRecorder(rec CacheRecorder) Option {
	return func(r *Registry) { r.recorder = rec }
}

// New returns a Registry backed by an in-memory cache that never expires
// unless WithCache says otherwise.
func New(source Source, log logger.Logger, opts ...Option) *Registry {
	r := &Registry{
		source:   source,
		cache:    NewMemoryCache(nil),
		log:      log,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveSite returns the site serving hostname. Errors wrap
// domain.ErrConfigurationMissing when no site or settings exist.
func (r *Registry) ResolveSite(ctx context.Context, hostname string) (*domain.SiteDescriptor, error) {
	host := normalizeHost(hostname)
	return r.load(ctx, "host:"+host, func(ctx context.Context) (*domain.SiteDescriptor, error) {
		return r.source.FindSiteByHost(ctx, host)
	})
}

// LanguagesFor returns the languages configured for the named site.
func (r *Registry) LanguagesFor(ctx context.Context, siteName string) ([]string, error) {
	site, err := r.load(ctx, "name:"+siteName, func(ctx context.Context) (*domain.SiteDescriptor, error) {
		return r.source.FindSiteByName(ctx, siteName)
	})
	if err != nil {
		return nil, err
	}
	return site.Languages, nil
}

func (r *Registry) load(
	ctx context.Context,
	key string,
	find func(context.Context) (*domain.SiteDescriptor, error),
) (*domain.SiteDescriptor, error) {
	site, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn("Site cache read failed", logger.String("key", key), logger.Error(err))
	}
	if ok {
		r.recorder.CacheResult(CacheHit)
		return site, nil
	}
	r.recorder.CacheResult(CacheMiss)

	ch := r.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		found, findErr := find(loadCtx)
		if findErr != nil {
			return nil, findErr
		}
		if completeErr := r.complete(loadCtx, found); completeErr != nil {
			return nil, completeErr
		}
		if setErr := r.cache.Set(loadCtx, key, found, r.ttl); setErr != nil {
			r.log.Warn("Site cache write failed", logger.String("key", key), logger.Error(setErr))
		}
		r.log.Info("Site configuration loaded",
			logger.String("site", found.Name),
			logger.Strings("languages", found.Languages),
		)
		return found, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	resolved := *res.Val.(*domain.SiteDescriptor)
	return &resolved, nil
}

// complete fills defaults and the route configuration of the default
// language.
func (r *Registry) complete(ctx context.Context, site *domain.SiteDescriptor) error {
	if site.DefaultLanguage == "" && len(site.Languages) > 0 {
		site.DefaultLanguage = site.Languages[0]
	}
	if site.DefaultLanguage == "" {
		return fmt.Errorf("%w: site %s has no languages", domain.ErrConfigurationMissing, site.Name)
	}
	if _, ok := site.HasLanguage(site.DefaultLanguage); !ok {
		site.Languages = append([]string{site.DefaultLanguage}, site.Languages...)
	}

	settings, err := r.source.SiteSettings(ctx, site.RootID, site.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("load settings for site %s: %w", site.Name, err)
	}

	site.RouteConfig = site.RouteConfigFor(settings)
	if settings.ShowIn != "" {
		site.ShowIn = settings.ShowIn
	}
	return nil
}

func normalizeHost(hostname string) string {
	host := strings.TrimSpace(hostname)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}
