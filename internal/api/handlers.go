package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	infralogger "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/logger"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/sitemap"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/urlresolver"
)

const (
	xmlContentType = "application/xml; charset=utf-8"

	// sitemapFailureMessage never carries internal details.
	sitemapFailureMessage = "Failed to generate sitemap"
)

// Compiler builds sitemap documents.
type Compiler interface {
	Compile(ctx context.Context, host, locale string) (*sitemap.Document, error)
}

// SiteResolver resolves a request host to its site.
type SiteResolver interface {
	ResolveSite(ctx context.Context, hostname string) (*domain.SiteDescriptor, error)
}

// ErrorResponse is the JSON body of 404 and 500 responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// InvalidLocaleResponse is the JSON body of a 400 for an unknown locale.
type InvalidLocaleResponse struct {
	Error            string   `json:"error"`
	AvailableLocales []string `json:"availableLocales"`
}

// ResolveResponse is the body of /api/v1/resolve.
type ResolveResponse struct {
	Path  string `json:"path"`
	Query string `json:"query,omitempty"`
	URL   string `json:"url"`
}

// Handler holds HTTP request handlers.
type Handler struct {
	compiler     Compiler
	sites        SiteResolver
	cacheControl string
	logger       infralogger.Logger
}

// NewHandler creates a new handler instance.
func NewHandler(compiler Compiler, sites SiteResolver, cacheControl string, log infralogger.Logger) *Handler {
	return &Handler{
		compiler:     compiler,
		sites:        sites,
		cacheControl: cacheControl,
		logger:       log,
	}
}

// Sitemap serves the sitemap index, or the urlset of ?locale=.
func (h *Handler) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.requestLogger(c)
	host := requestHost(c)
	locale := strings.TrimSpace(c.Query("locale"))

	doc, err := h.compiler.Compile(ctx, host, locale)
	if err != nil {
		h.writeError(c, log, host, err)
		return
	}

	log.Info("Sitemap generated",
		infralogger.String("host", host),
		infralogger.String("site", doc.Site),
		infralogger.String("mode", doc.Mode),
		infralogger.String("locale", doc.Locale),
		infralogger.Int("urls", doc.URLs),
	)

	c.Header("Cache-Control", h.cacheControl)
	c.Data(http.StatusOK, xmlContentType, doc.Body)
}

func (h *Handler) writeError(c *gin.Context, log infralogger.Logger, host string, err error) {
	var localeErr *domain.InvalidLocaleError

	switch {
	case errors.As(err, &localeErr):
		c.JSON(http.StatusBadRequest, InvalidLocaleResponse{
			Error:            "Invalid locale",
			AvailableLocales: localeErr.Available,
		})
	case errors.Is(err, domain.ErrConfigurationMissing):
		log.Warn("No site configured for host", infralogger.String("host", host), infralogger.Error(err))
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Site not found",
			Code:  "CONFIGURATION_MISSING",
		})
	default:
		log.Error("Sitemap compilation failed", infralogger.String("host", host), infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: sitemapFailureMessage,
			Code:  "COMPILATION_FAILURE",
		})
	}
}

// Query parameters of /api/v1/resolve that are not passed through.
var reservedResolveParams = map[string]struct{}{
	"kind":        {},
	"slug":        {},
	"locale":      {},
	"contentType": {},
	"topic":       {},
	"product":     {},
	"industry":    {},
}

// Resolve builds the canonical URL of one route descriptor on the request
// host, in ?locale= or the site's default language. Unknown kinds are
// rejected; a kind without a template resolves to "/".
func (h *Handler) Resolve(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.requestLogger(c)
	host := requestHost(c)

	kind, ok := domain.ParseRouteKind(c.Query("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown route kind", Code: "INVALID_KIND"})
		return
	}

	site, err := h.sites.ResolveSite(ctx, host)
	if err != nil {
		h.writeError(c, log, host, err)
		return
	}

	lang := site.DefaultLanguage
	if raw := strings.TrimSpace(c.Query("locale")); raw != "" {
		matched, found := sitemap.MatchLocale(site, raw)
		if !found {
			h.writeError(c, log, host, &domain.InvalidLocaleError{Locale: raw, Available: site.Languages})
			return
		}
		lang = matched
	}

	query := c.Request.URL.Query()
	passthrough := url.Values{}
	for key, values := range query {
		if _, reserved := reservedResolveParams[key]; !reserved {
			passthrough[key] = values
		}
	}

	result := urlresolver.NewLocalized(&site.RouteConfig).Resolve(urlresolver.Request{
		Kind: kind,
		Slug: c.Query("slug"),
		Filters: domain.Filters{
			ContentTypes: query["contentType"],
			Topics:       query["topic"],
			Products:     query["product"],
			Industries:   query["industry"],
		},
		RawQuery: passthrough,
		Locale:   site.LocalePrefix(lang),
	})

	c.JSON(http.StatusOK, ResolveResponse{
		Path:  result.Path,
		Query: result.Query,
		URL:   result.String(),
	})
}

// requestLogger returns the request-scoped logger when the request ID
// middleware ran.
func (h *Handler) requestLogger(c *gin.Context) infralogger.Logger {
	if _, ok := c.Get("request_id"); ok {
		return infralogger.FromContext(c.Request.Context())
	}
	return h.logger
}

// requestHost prefers the first X-Forwarded-Host entry.
func requestHost(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-Host"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return c.Request.Host
}
