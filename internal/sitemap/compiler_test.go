package sitemap_test

import (
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/harvest"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/sitemap"
)

type fakeSites struct {
	site *domain.SiteDescriptor
	err  error
}

func (f fakeSites) ResolveSite(context.Context, string) (*domain.SiteDescriptor, error) {
	return f.site, f.err
}

type fakeHarvester struct {
	declared []domain.HarvestedItem
	wildcard []domain.HarvestedItem
	families domain.TemplateFamilies
}

func (f *fakeHarvester) HarvestDeclaredPages(_ context.Context, langs []string, _ *domain.SiteDescriptor) harvest.Result {
	return harvest.Result{Items: tag(f.declared, langs[0])}
}

func (f *fakeHarvester) HarvestWildcardPages(_ context.Context, langs []string, _ *domain.SiteDescriptor) harvest.Result {
	return harvest.Result{Items: tag(f.wildcard, langs[0])}
}

func (f *fakeHarvester) Families() domain.TemplateFamilies { return f.families }

func tag(items []domain.HarvestedItem, lang string) []domain.HarvestedItem {
	out := make([]domain.HarvestedItem, len(items))
	for i, it := range items {
		it.Language = lang
		out[i] = it
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func testSite() *domain.SiteDescriptor {
	return &domain.SiteDescriptor{
		Name:            "corporate",
		RootPath:        "/sitecore/content/corporate/home",
		DefaultLanguage: "en-us",
		Languages:       []string{"en-us", "fr-ca"},
		RouteConfig: domain.RouteConfig{
			Templates: map[domain.RouteKind]string{
				domain.RouteContentSlug: "/en-us/insights/,-w-,",
				domain.RouteAuthor:      "/en-us/authors/,-w-,/",
				domain.RouteSME:         "/en-us/experts/-w-",
				domain.RouteIndustry:    "/en-us/industries/*",
			},
			DefaultLanguage: "en-us",
		},
	}
}

func testHarvester() *fakeHarvester {
	return &fakeHarvester{
		families: domain.TemplateFamilies{
			Author:   []string{"tpl-author"},
			Content:  []string{"tpl-article"},
			Industry: []string{"tpl-industry"},
		},
		declared: []domain.HarvestedItem{
			{ID: "1", Path: "/sitecore/content/corporate/home", TemplateID: "tpl-page", LastModified: "2024-01-15T10:00:00Z", Priority: "1.0"},
			{ID: "2", Path: "/sitecore/content/corporate/home/about-us/", LastModified: "19000101T000000", ChangeFrequency: map[string]any{"value": "monthly"}},
			{ID: "3", Path: "/sitecore/content/corporate/home/about-us", LastModified: "20240301T080000Z"},
		},
		wildcard: []domain.HarvestedItem{
			{ID: "4", TemplateID: "tpl-article", Slug: "Faster Payouts & More", Priority: 0.7},
			{ID: "5", TemplateID: "tpl-author", Slug: "jane-doe", IsAlternate: boolPtr(false)},
			{ID: "6", TemplateID: "tpl-author", Slug: "john-roe", IsAlternate: boolPtr(true)},
			{ID: "7", TemplateID: "tpl-industry", Slug: "retail"},
			{ID: "8", TemplateID: "tpl-article"},
		},
	}
}

func newCompiler(sites sitemap.SiteResolver, h sitemap.Harvester) *sitemap.Compiler {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return sitemap.New(sites, h, logger.NewNop(), sitemap.WithClock(func() time.Time { return now }))
}

type parsedURLSet struct {
	URLs []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

func TestCompile_Index(t *testing.T) {
	t.Parallel()

	c := newCompiler(fakeSites{site: testSite()}, testHarvester())

	doc, err := c.Compile(context.Background(), "www.example.com", "")
	require.NoError(t, err)

	assert.Equal(t, sitemap.ModeIndex, doc.Mode)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap>
    <loc>https://www.example.com/sitemap.xml?locale=en-us</loc>
  </sitemap>
  <sitemap>
    <loc>https://www.example.com/sitemap.xml?locale=fr-ca</loc>
  </sitemap>
</sitemapindex>
`, string(doc.Body))
}

func TestCompile_URLSetDefaultLanguage(t *testing.T) {
	t.Parallel()

	c := newCompiler(fakeSites{site: testSite()}, testHarvester())

	doc, err := c.Compile(context.Background(), "www.example.com", "EN-US")
	require.NoError(t, err)
	assert.Equal(t, "en-us", doc.Locale)

	var parsed parsedURLSet
	require.NoError(t, xml.Unmarshal(doc.Body, &parsed))

	locs := make([]string, 0, len(parsed.URLs))
	for _, u := range parsed.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		"https://www.example.com/",
		"https://www.example.com/about-us",
		"https://www.example.com/insights/Faster%20Payouts%20&%20More",
		"https://www.example.com/authors/jane-doe",
		"https://www.example.com/experts/john-roe",
		"https://www.example.com/industries/retail",
	}, locs)

	assert.Equal(t, "2024-01-15", parsed.URLs[0].LastMod)
	assert.Equal(t, "1.0", parsed.URLs[0].Priority)
	assert.Empty(t, parsed.URLs[1].LastMod)
	assert.Equal(t, "monthly", parsed.URLs[1].ChangeFreq)
	assert.Equal(t, "0.7", parsed.URLs[2].Priority)
	assert.Equal(t, 6, doc.URLs)
}

func TestCompile_URLSetNonDefaultLanguagePrefixed(t *testing.T) {
	t.Parallel()

	c := newCompiler(fakeSites{site: testSite()}, testHarvester())

	doc, err := c.Compile(context.Background(), "www.example.com", "fr-ca")
	require.NoError(t, err)

	body := string(doc.Body)
	assert.Contains(t, body, "<loc>https://www.example.com/fr-ca</loc>")
	assert.Contains(t, body, "<loc>https://www.example.com/fr-ca/experts/john-roe</loc>")
	assert.Contains(t, body, "<loc>https://www.example.com/fr-ca/about-us</loc>")
}

func TestCompile_EmbeddedDefaultLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		locale string
		want   []string
	}{
		{
			name:   "default language",
			locale: "en-us",
			want: []string{
				"https://www.example.com/en-us",
				"https://www.example.com/en-us/about-us",
				"https://www.example.com/en-us/insights/Faster%20Payouts%20&%20More",
				"https://www.example.com/en-us/authors/jane-doe",
				"https://www.example.com/en-us/experts/john-roe",
				"https://www.example.com/en-us/industries/retail",
			},
		},
		{
			name:   "other language",
			locale: "fr-ca",
			want: []string{
				"https://www.example.com/fr-ca",
				"https://www.example.com/fr-ca/about-us",
				"https://www.example.com/fr-ca/insights/Faster%20Payouts%20&%20More",
				"https://www.example.com/fr-ca/authors/jane-doe",
				"https://www.example.com/fr-ca/experts/john-roe",
				"https://www.example.com/fr-ca/industries/retail",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			site := testSite()
			site.EmbedDefaultLanguage = true
			site.RouteConfig.EmbedDefaultLanguage = true
			c := newCompiler(fakeSites{site: site}, testHarvester())

			doc, err := c.Compile(context.Background(), "www.example.com", tt.locale)
			require.NoError(t, err)

			var parsed parsedURLSet
			require.NoError(t, xml.Unmarshal(doc.Body, &parsed))

			locs := make([]string, 0, len(parsed.URLs))
			for _, u := range parsed.URLs {
				locs = append(locs, u.Loc)
			}
			assert.Equal(t, tt.want, locs)
		})
	}
}

func TestCompile_RawPathSegmentsEscaped(t *testing.T) {
	t.Parallel()

	h := testHarvester()
	h.declared = []domain.HarvestedItem{
		{ID: "9", Path: "/sitecore/content/corporate/home/about us/café"},
		{ID: "10", Path: "/sitecore/content/corporate/home/press%20room"},
	}
	h.wildcard = nil
	c := newCompiler(fakeSites{site: testSite()}, h)

	doc, err := c.Compile(context.Background(), "www.example.com", "en-us")
	require.NoError(t, err)

	body := string(doc.Body)
	assert.Contains(t, body, "<loc>https://www.example.com/about%20us/caf%C3%A9</loc>")
	assert.Contains(t, body, "<loc>https://www.example.com/press%20room</loc>")
	assert.NotContains(t, body, "%2520")
}

func TestCompile_EscapesLocs(t *testing.T) {
	t.Parallel()

	h := testHarvester()
	h.declared = append(h.declared, domain.HarvestedItem{ID: "9", Path: `/sitecore/content/corporate/home/a<b>&'"c`})
	c := newCompiler(fakeSites{site: testSite()}, h)

	doc, err := c.Compile(context.Background(), "www.example.com", "en-us")
	require.NoError(t, err)

	body := string(doc.Body)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "<loc>") {
			continue
		}
		value := strings.TrimSuffix(strings.TrimPrefix(line, "<loc>"), "</loc>")
		assert.NotContains(t, value, "<", value)
		assert.NotContains(t, value, ">", value)
		assert.NotContains(t, value, "'", value)
		assert.NotContains(t, value, `"`, value)
		assert.NotContains(t, strings.ReplaceAll(strings.ReplaceAll(strings.ReplaceAll(strings.ReplaceAll(
			value, "&amp;", ""), "&lt;", ""), "&gt;", ""), "&#", ""), "&", value)
		assert.NotContains(t, strings.TrimPrefix(value, "https://"), "//", value)
	}
	assert.Contains(t, body, "/a&lt;b&gt;&amp;&#39;&#34;c</loc>")
}

func TestCompile_Exclusions(t *testing.T) {
	t.Parallel()

	site := testSite()
	site.Sitemap = domain.SitemapSettings{ExcludeLastMod: true, ExcludePriority: true, ExcludeChangeFrequency: true}
	c := newCompiler(fakeSites{site: site}, testHarvester())

	doc, err := c.Compile(context.Background(), "www.example.com", "en-us")
	require.NoError(t, err)

	body := string(doc.Body)
	assert.NotContains(t, body, "<lastmod>")
	assert.NotContains(t, body, "<priority>")
	assert.NotContains(t, body, "<changefreq>")
}

func TestCompile_InvalidLocale(t *testing.T) {
	t.Parallel()

	c := newCompiler(fakeSites{site: testSite()}, testHarvester())

	_, err := c.Compile(context.Background(), "www.example.com", "zz-ZZ")

	var localeErr *domain.InvalidLocaleError
	require.ErrorAs(t, err, &localeErr)
	assert.Equal(t, "zz-ZZ", localeErr.Locale)
	assert.Equal(t, []string{"en-us", "fr-ca"}, localeErr.Available)
}

func TestCompile_LocaleCanonicalMatch(t *testing.T) {
	t.Parallel()

	c := newCompiler(fakeSites{site: testSite()}, testHarvester())

	doc, err := c.Compile(context.Background(), "www.example.com", "fr_CA")
	require.NoError(t, err)
	assert.Equal(t, "fr-ca", doc.Locale)
}

func TestCompile_SiteErrors(t *testing.T) {
	t.Parallel()

	missing := newCompiler(fakeSites{err: domain.ErrConfigurationMissing}, testHarvester())
	_, err := missing.Compile(context.Background(), "nowhere.example", "")
	require.ErrorIs(t, err, domain.ErrConfigurationMissing)
	assert.NotErrorIs(t, err, domain.ErrCompilationFailure)

	broken := newCompiler(fakeSites{err: errors.New("connection refused")}, testHarvester())
	_, err = broken.Compile(context.Background(), "www.example.com", "")
	require.ErrorIs(t, err, domain.ErrCompilationFailure)
}

func TestURLSet_Deterministic(t *testing.T) {
	t.Parallel()

	h := testHarvester()
	c := newCompiler(fakeSites{site: testSite()}, h)
	items := tag(append(append([]domain.HarvestedItem{}, h.declared...), h.wildcard...), "en-us")

	first, err := c.URLSet(testSite(), "www.example.com", "en-us", items)
	require.NoError(t, err)
	second, err := c.URLSet(testSite(), "www.example.com", "en-us", items)
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body)
}
