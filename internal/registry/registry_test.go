package registry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/registry"
)

type fakeSource struct {
	mu            sync.Mutex
	hostLookups   int
	nameLookups   int
	settingsCalls int
	settingsErr   error
	sites         map[string]domain.SiteDescriptor
}

func newFakeSource() *fakeSource {
	return &fakeSource{sites: map[string]domain.SiteDescriptor{
		"www.example.com": {
			Name:            "corporate",
			HostNames:       []string{"www.example.com"},
			RootID:          "root-1",
			DefaultLanguage: "en-us",
			Languages:       []string{"en-us", "fr-ca"},
		},
	}}
}

func (f *fakeSource) FindSiteByHost(_ context.Context, host string) (*domain.SiteDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hostLookups++
	site, ok := f.sites[host]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrConfigurationMissing, host)
	}
	return &site, nil
}

func (f *fakeSource) FindSiteByName(_ context.Context, name string) (*domain.SiteDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nameLookups++
	for _, s := range f.sites {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, domain.ErrConfigurationMissing
}

func (f *fakeSource) SiteSettings(_ context.Context, rootID, language string) (*domain.SiteSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settingsCalls++
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return &domain.SiteSettings{
		Templates: map[domain.RouteKind]string{domain.RouteHome: "/" + language},
		ShowIn:    rootID + "-show",
	}, nil
}

type recorder struct {
	mu      sync.Mutex
	results []string
}

func (r *recorder) CacheResult(result string) {
	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
}

func TestResolveSite_MemoizesFirstFetch(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	rec := &recorder{}
	reg := registry.New(source, logger.NewNop(), registry.WithRecorder(rec))

	site, err := reg.ResolveSite(context.Background(), "WWW.Example.com:443")
	require.NoError(t, err)
	assert.Equal(t, "corporate", site.Name)
	assert.Equal(t, "/en-us", site.RouteConfig.Templates[domain.RouteHome])
	assert.Equal(t, "en-us", site.RouteConfig.DefaultLanguage)
	assert.Equal(t, "root-1-show", site.ShowIn)

	_, err = reg.ResolveSite(context.Background(), "www.example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, source.hostLookups)
	assert.Equal(t, 1, source.settingsCalls)
	assert.Equal(t, []string{registry.CacheMiss, registry.CacheHit}, rec.results)
}

// slowSource blocks host lookups until release is closed and then honors
// the lookup context, as a network-backed source would.
type slowSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowSource) FindSiteByHost(ctx context.Context, host string) (*domain.SiteDescriptor, error) {
	s.once.Do(func() { close(s.started) })
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fakeSource.FindSiteByHost(ctx, host)
}

func TestResolveSite_SharedLoadSurvivesCallerCancel(t *testing.T) {
	t.Parallel()

	source := &slowSource{
		fakeSource: newFakeSource(),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	reg := registry.New(source, logger.NewNop())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := reg.ResolveSite(firstCtx, "www.example.com")
		firstErr <- err
	}()
	<-source.started

	type result struct {
		site *domain.SiteDescriptor
		err  error
	}
	second := make(chan result, 1)
	go func() {
		site, err := reg.ResolveSite(context.Background(), "www.example.com")
		second <- result{site: site, err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(source.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "corporate", got.site.Name)

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.Equal(t, 1, source.hostLookups)
}

func TestResolveSite_ConfigurationMissing(t *testing.T) {
	t.Parallel()

	reg := registry.New(newFakeSource(), logger.NewNop())

	_, err := reg.ResolveSite(context.Background(), "unknown.example")
	require.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestResolveSite_SettingsFailureNotCached(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.settingsErr = errors.New("settings index unavailable")
	reg := registry.New(source, logger.NewNop())

	_, err := reg.ResolveSite(context.Background(), "www.example.com")
	require.Error(t, err)

	source.mu.Lock()
	source.settingsErr = nil
	source.mu.Unlock()

	_, err = reg.ResolveSite(context.Background(), "www.example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, source.hostLookups)
}

func TestLanguagesFor(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	reg := registry.New(source, logger.NewNop())

	langs, err := reg.LanguagesFor(context.Background(), "corporate")
	require.NoError(t, err)
	assert.Equal(t, []string{"en-us", "fr-ca"}, langs)

	_, err = reg.LanguagesFor(context.Background(), "corporate")
	require.NoError(t, err)
	assert.Equal(t, 1, source.nameLookups)
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := registry.NewMemoryCache(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", &domain.SiteDescriptor{Name: "a"}, time.Minute))
	require.NoError(t, cache.Set(ctx, "forever", &domain.SiteDescriptor{Name: "b"}, 0))

	site, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", site.Name)

	now = now.Add(time.Minute)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(24 * time.Hour)
	_, ok, _ = cache.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestResolveSite_CacheExpiryRefetches(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time { mu.Lock(); defer mu.Unlock(); return now }

	source := newFakeSource()
	reg := registry.New(source, logger.NewNop(), registry.WithCache(registry.NewMemoryCache(clock), time.Hour))

	_, err := reg.ResolveSite(context.Background(), "www.example.com")
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	_, err = reg.ResolveSite(context.Background(), "www.example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, source.hostLookups)
}

func TestRedisCache(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := registry.NewRedisCache(client, "sitemap:site:")
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "host:www.example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	in := &domain.SiteDescriptor{
		Name:      "corporate",
		Languages: []string{"en-us"},
		RouteConfig: domain.RouteConfig{
			Templates: map[domain.RouteKind]string{domain.RouteAuthor: "/authors/,-w-,"},
		},
	}
	require.NoError(t, cache.Set(ctx, "host:www.example.com", in, time.Minute))
	assert.True(t, mr.Exists("sitemap:site:host:www.example.com"))

	out, ok, err := cache.Get(ctx, "host:www.example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.RouteConfig.Templates, out.RouteConfig.Templates)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "host:www.example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
