// Package harvest enumerates indexable content per language from the
// content backend.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/retry"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
)

// Strategy names a harvesting strategy in logs and metrics.
type Strategy string

const (
	StrategyDeclared Strategy = "declared"
	StrategyWildcard Strategy = "wildcard"
)

// ShowInField is the content field scoping wildcard items to a site.
const ShowInField = "show_in"

// ErrFetchTimeout is returned when one page fetch exceeds FetchTimeout.
var ErrFetchTimeout = errors.New("page fetch timed out")

// Backend is the content search backend.
type Backend interface {
	SearchContent(ctx context.Context, q domain.ContentQuery) (*domain.ContentPage, error)
}

// Recorder receives harvest metrics.
type Recorder interface {
	PageFetched(strategy string, items int)
	FetchFailed(strategy string)
}

type nopRecorder struct{}

func (nopRecorder) PageFetched(string, int) {}
func (nopRecorder) FetchFailed(string)      {}

// Config tunes the harvester.
type Config struct {
	PageSize int
	// FetchTimeout bounds each attempt. A timeout is a transient failure.
	FetchTimeout time.Duration
	Retry        retry.Config
	// RequestsPerSecond throttles page fetches across all languages.
	// Zero disables throttling.
	RequestsPerSecond float64
	Burst             int
	// DeclaredField and DeclaredValue mark content included in the sitemap.
	DeclaredField string
	DeclaredValue any
	Families      domain.TemplateFamilies
}

const defaultPageSize = 100

// Harvester fans out one task per language and joins them.
type Harvester struct {
	backend  Backend
	cfg      Config
	limiter  *rate.Limiter
	log      logger.Logger
	recorder Recorder
}

// Option customizes a Harvester.
type Option func(*Harvester)

// WithRecorder reports page and failure counts.
func WithRecorder(r Recorder) Option {
	return func(h *Harvester) { h.recorder = r }
}

// New builds a Harvester.
func New(backend Backend, cfg Config, log logger.Logger, opts ...Option) *Harvester {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := max(cfg.Burst, 1)

	h := &Harvester{
		backend:  backend,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, burst),
		log:      log,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Families returns the configured wildcard template families.
func (h *Harvester) Families() domain.TemplateFamilies {
	return h.cfg.Families
}

// Result is a joined harvest. Failures lists languages that stopped early;
// their items fetched before the failure are still in Items.
type Result struct {
	Items    []domain.HarvestedItem
	Failures []*domain.UpstreamFetchError
}

// HarvestDeclaredPages returns every page under the site root flagged for
// inclusion.
func (h *Harvester) HarvestDeclaredPages(ctx context.Context, languages []string, site *domain.SiteDescriptor) Result {
	q := domain.ContentQuery{PathPrefix: site.RootPath}
	if h.cfg.DeclaredField != "" {
		q.Fields = map[string]any{h.cfg.DeclaredField: h.cfg.DeclaredValue}
	}
	return h.harvest(ctx, StrategyDeclared, languages, q)
}

// HarvestWildcardPages returns every item built from a wildcard template
// family and shown on the site.
func (h *Harvester) HarvestWildcardPages(ctx context.Context, languages []string, site *domain.SiteDescriptor) Result {
	templates := h.cfg.Families.All()
	if len(templates) == 0 {
		return Result{}
	}

	q := domain.ContentQuery{TemplateIDs: templates}
	if site.ShowIn != "" {
		q.Fields = map[string]any{ShowInField: site.ShowIn}
	}
	return h.harvest(ctx, StrategyWildcard, languages, q)
}

// harvest starts every language together. Each task owns its slot in the
// result slices; the flattened output follows the order of languages.
func (h *Harvester) harvest(ctx context.Context, strategy Strategy, languages []string, base domain.ContentQuery) Result {
	items := make([][]domain.HarvestedItem, len(languages))
	failures := make([]*domain.UpstreamFetchError, len(languages))

	var g errgroup.Group
	for i, lang := range languages {
		g.Go(func() error {
			items[i], failures[i] = h.harvestLanguage(ctx, strategy, lang, base)
			return nil
		})
	}
	_ = g.Wait()

	var result Result
	for i := range languages {
		result.Items = append(result.Items, items[i]...)
		if failures[i] != nil {
			result.Failures = append(result.Failures, failures[i])
		}
	}
	return result
}

func (h *Harvester) harvestLanguage(
	ctx context.Context,
	strategy Strategy,
	lang string,
	base domain.ContentQuery,
) ([]domain.HarvestedItem, *domain.UpstreamFetchError) {
	pager := NewPager(func(ctx context.Context, after *string) (*domain.ContentPage, error) {
		q := base
		q.Language = lang
		q.After = after
		q.Size = h.cfg.PageSize
		return h.fetch(ctx, q)
	})

	var items []domain.HarvestedItem
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			fetchErr := &domain.UpstreamFetchError{
				Strategy: string(strategy),
				Language: lang,
				Page:     pager.Pages(),
				Err:      err,
			}
			h.recorder.FetchFailed(string(strategy))
			h.log.Warn("Upstream fetch failed, language harvest incomplete",
				logger.String("strategy", string(strategy)),
				logger.String("language", lang),
				logger.Int("page", pager.Pages()),
				logger.Int("items_kept", len(items)),
				logger.Error(err),
			)
			return items, fetchErr
		}

		h.recorder.PageFetched(string(strategy), len(page.Items))
		for _, item := range page.Items {
			item.Language = lang
			items = append(items, item)
		}

		if page.Exhausted {
			return items, nil
		}
	}
}

func (h *Harvester) fetch(ctx context.Context, q domain.ContentQuery) (*domain.ContentPage, error) {
	var page *domain.ContentPage

	err := retry.Do(ctx, h.cfg.Retry, func(ctx context.Context) error {
		if err := h.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		var err error
		page, err = h.fetchOnce(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (h *Harvester) fetchOnce(ctx context.Context, q domain.ContentQuery) (*domain.ContentPage, error) {
	if h.cfg.FetchTimeout <= 0 {
		return h.backend.SearchContent(ctx, q)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, h.cfg.FetchTimeout)
	defer cancel()

	page, err := h.backend.SearchContent(attemptCtx, q)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return nil, retry.Transient(fmt.Errorf("%w after %s", ErrFetchTimeout, h.cfg.FetchTimeout))
	}
	return page, err
}
