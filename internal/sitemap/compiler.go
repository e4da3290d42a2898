// Package sitemap compiles harvested content into sitemap index and urlset
// documents.
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/harvest"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/urlresolver"
)

// Document modes.
const (
	ModeIndex  = "index"
	ModeURLSet = "urlset"
)

// SiteResolver resolves a request host to its site.
type SiteResolver interface {
	ResolveSite(ctx context.Context, hostname string) (*domain.SiteDescriptor, error)
}

// Harvester enumerates content for a site.
type Harvester interface {
	HarvestDeclaredPages(ctx context.Context, languages []string, site *domain.SiteDescriptor) harvest.Result
	HarvestWildcardPages(ctx context.Context, languages []string, site *domain.SiteDescriptor) harvest.Result
	Families() domain.TemplateFamilies
}

// Recorder observes compile durations.
type Recorder interface {
	CompileObserved(mode string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) CompileObserved(string, time.Duration) {}

// Document is a rendered sitemap.
type Document struct {
	Mode   string
	Site   string
	Locale string
	// URLs is the number of entries written.
	URLs int
	Body []byte
}

// Compiler runs resolve site, harvest, resolve URLs and render.
type Compiler struct {
	sites     SiteResolver
	harvester Harvester
	scheme    string
	now       func() time.Time
	log       logger.Logger
	recorder  Recorder
	tracer    trace.Tracer
}

// Option customizes a Compiler.
type Option func(*Compiler)

// WithScheme sets the scheme of every emitted URL. Default "https".
func WithScheme(scheme string) Option {
	return func(c *Compiler) { c.scheme = scheme }
}

// WithClock replaces time.Now for last-modified validation.
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) { c.now = now }
}

// WithRecorder reports compile durations.
func WithRecorder(r Recorder) Option {
	return func(c *Compiler) { c.recorder = r }
}

// New builds a Compiler.
func New(sites SiteResolver, harvester Harvester, log logger.Logger, opts ...Option) *Compiler {
	c := &Compiler{
		sites:     sites,
		harvester: harvester,
		scheme:    "https",
		now:       time.Now,
		log:       log,
		recorder:  nopRecorder{},
		tracer:    otel.Tracer("sitemap-compiler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile renders the sitemap index for host, or the urlset of locale when
// locale is set. Errors are domain.ErrConfigurationMissing,
// *domain.InvalidLocaleError, or wrap domain.ErrCompilationFailure.
func (c *Compiler) Compile(ctx context.Context, host, locale string) (*Document, error) {
	mode := ModeIndex
	if locale != "" {
		mode = ModeURLSet
	}

	ctx, span := c.tracer.Start(ctx, "sitemap.compile",
		trace.WithAttributes(
			attribute.String("host", host),
			attribute.String("locale", locale),
			attribute.String("mode", mode),
		))
	defer span.End()

	start := time.Now()
	doc, err := c.compile(ctx, host, locale)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c.recorder.CompileObserved(mode, time.Since(start))
	span.SetAttributes(attribute.Int("urls", doc.URLs))
	return doc, nil
}

func (c *Compiler) compile(ctx context.Context, host, locale string) (*Document, error) {
	site, err := c.sites.ResolveSite(ctx, host)
	if err != nil {
		if errors.Is(err, domain.ErrConfigurationMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: resolve site: %w", domain.ErrCompilationFailure, err)
	}

	if locale == "" {
		return c.index(site, host)
	}

	lang, ok := MatchLocale(site, locale)
	if !ok {
		return nil, &domain.InvalidLocaleError{Locale: locale, Available: site.Languages}
	}

	items := c.harvestLocale(ctx, site, lang)
	return c.URLSet(site, host, lang, items)
}

func (c *Compiler) index(site *domain.SiteDescriptor, host string) (*Document, error) {
	doc := sitemapIndex{XMLNS: Namespace}
	for _, lang := range site.Languages {
		loc := url.URL{
			Scheme:   c.scheme,
			Host:     host,
			Path:     "/sitemap.xml",
			RawQuery: url.Values{"locale": {lang}}.Encode(),
		}
		doc.Sitemaps = append(doc.Sitemaps, sitemapEntry{Loc: loc.String()})
	}

	body, err := render(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompilationFailure, err)
	}
	return &Document{Mode: ModeIndex, Site: site.Name, URLs: len(doc.Sitemaps), Body: body}, nil
}

// harvestLocale runs both strategies together. Declared pages come first.
func (c *Compiler) harvestLocale(ctx context.Context, site *domain.SiteDescriptor, lang string) []domain.HarvestedItem {
	languages := []string{lang}
	var declared, wildcard harvest.Result

	var g errgroup.Group
	g.Go(func() error {
		declared = c.harvester.HarvestDeclaredPages(ctx, languages, site)
		return nil
	})
	g.Go(func() error {
		wildcard = c.harvester.HarvestWildcardPages(ctx, languages, site)
		return nil
	})
	_ = g.Wait()

	items := make([]domain.HarvestedItem, 0, len(declared.Items)+len(wildcard.Items))
	items = append(items, declared.Items...)
	return append(items, wildcard.Items...)
}

// URLSet renders items as the urlset of lang. It is deterministic: the same
// site, items and clock produce the same bytes. Items that cannot be
// resolved are skipped, and a loc already written is not written again.
func (c *Compiler) URLSet(site *domain.SiteDescriptor, host, lang string, items []domain.HarvestedItem) (*Document, error) {
	resolver := urlresolver.NewLocalized(&site.RouteConfig)
	families := c.harvester.Families()
	now := c.now()

	doc := urlSet{XMLNS: Namespace}
	seen := make(map[string]struct{}, len(items))

	for i := range items {
		item := &items[i]

		path, err := c.resolveItem(site, resolver, families, item)
		if err != nil {
			c.log.Debug("Skipping sitemap item",
				logger.String("item_id", item.ID),
				logger.String("path", item.Path),
				logger.String("template_id", item.TemplateID),
				logger.Error(err),
			)
			continue
		}

		loc := c.scheme + "://" + host + path
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}

		entry := urlEntry{Loc: loc}
		if !site.Sitemap.ExcludeLastMod {
			var ok bool
			if entry.LastMod, ok = formatLastMod(item.LastModified, now); !ok && item.LastModified != "" {
				c.log.Debug("Skipping last-modified date",
					logger.String("item_id", item.ID),
					logger.String("updated", item.LastModified),
				)
			}
		}
		if !site.Sitemap.ExcludeChangeFrequency {
			entry.ChangeFreq = flattenValue(item.ChangeFrequency)
		}
		if !site.Sitemap.ExcludePriority {
			entry.Priority = flattenValue(item.Priority)
		}
		doc.URLs = append(doc.URLs, entry)
	}

	body, err := render(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompilationFailure, err)
	}
	return &Document{Mode: ModeURLSet, Site: site.Name, Locale: lang, URLs: len(doc.URLs), Body: body}, nil
}

// resolveItem classifies templated items and resolves them through the
// route templates. Other items use their escaped raw path below the site
// root. Either way the locale prefix comes from the item's language, never
// from the templates.
func (c *Compiler) resolveItem(
	site *domain.SiteDescriptor,
	resolver *urlresolver.Resolver,
	families domain.TemplateFamilies,
	item *domain.HarvestedItem,
) (string, error) {
	locale := site.LocalePrefix(item.Language)

	if item.TemplateID != "" {
		if kind, ok := families.Classify(item.TemplateID, item.Alternate()); ok {
			if item.Slug == "" {
				return "", fmt.Errorf("%w: %s item has no slug", domain.ErrUnresolvableItem, kind)
			}
			if _, configured := site.RouteConfig.Templates[kind]; !configured {
				return "", fmt.Errorf("%w: no %s template", domain.ErrUnresolvableItem, kind)
			}
			return resolver.Resolve(urlresolver.Request{Kind: kind, Slug: item.Slug, Locale: locale}).Path, nil
		}
	}

	if item.Path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrUnresolvableItem)
	}
	return urlresolver.JoinPath(locale, urlresolver.EscapePath(trimRoot(item.Path, site.RootPath))), nil
}

// trimRoot removes the site root from a content path, ignoring case, when
// it ends on a segment boundary.
func trimRoot(path, root string) string {
	root = strings.TrimSuffix(root, "/")
	if root == "" || len(path) < len(root) || !strings.EqualFold(path[:len(root)], root) {
		return path
	}
	rest := path[len(root):]
	if rest != "" && rest[0] != '/' {
		return path
	}
	return rest
}

// MatchLocale finds locale in the site's languages, first by
// case-insensitive name, then by canonical BCP 47 tag so "fr_CA" matches
// "fr-ca".
func MatchLocale(site *domain.SiteDescriptor, locale string) (string, bool) {
	if lang, ok := site.HasLanguage(locale); ok {
		return lang, true
	}

	want, err := language.Parse(locale)
	if err != nil {
		return "", false
	}
	for _, lang := range site.Languages {
		if tag, parseErr := language.Parse(lang); parseErr == nil && tag == want {
			return lang, true
		}
	}
	return "", false
}
