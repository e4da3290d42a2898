// Package urlresolver turns a route kind, slug and filters into a canonical
// site path using the site's route templates.
package urlresolver

import (
	"net/url"
	"strings"

	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
)

// Request describes one URL to resolve. Every field is optional except Kind.
type Request struct {
	Kind    domain.RouteKind
	Slug    string
	Filters domain.Filters
	// RawQuery is merged into listing query strings before Filters.
	RawQuery url.Values
	// Locale, when set, becomes the first path segment.
	Locale string
}

// Result is a resolved URL.
type Result struct {
	Path  string `json:"path"`
	Query string `json:"query,omitempty"`
}

// String joins path and query.
func (r Result) String() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// Root is returned when nothing better can be resolved.
var Root = Result{Path: "/"}

// Resolver resolves requests against one site's RouteConfig. Templates are
// rewritten once at construction, so a Resolver is safe for concurrent use.
type Resolver struct {
	templates   map[domain.RouteKind]string
	queryFields domain.QueryFields
}

// New compiles cfg. When the default language is not embedded in URLs,
// whole path segments equal to it (ignoring case) are removed from every
// template before any wildcard substitution happens.
func New(cfg *domain.RouteConfig) *Resolver {
	if cfg == nil {
		return &Resolver{}
	}

	templates := make(map[domain.RouteKind]string, len(cfg.Templates))
	for kind, tpl := range cfg.Templates {
		if !cfg.EmbedDefaultLanguage && cfg.DefaultLanguage != "" {
			tpl = stripSegment(tpl, cfg.DefaultLanguage)
		}
		templates[kind] = tpl
	}

	return &Resolver{templates: templates, queryFields: cfg.QueryFields}
}

// NewLocalized compiles cfg with the default-language segment always
// removed from templates. Site templates are written for the default
// language, so callers serving several languages use this and pass the
// locale prefix (empty for an unembedded default language) with each
// request.
func NewLocalized(cfg *domain.RouteConfig) *Resolver {
	if cfg == nil {
		return New(nil)
	}
	stripped := *cfg
	stripped.EmbedDefaultLanguage = false
	return New(&stripped)
}

// Resolve never fails. A nil Resolver, an unconfigured site or a kind with
// no template resolves to "/" so callers always get a usable link.
//
// A slug is path-escaped and replaces the wildcard token. A template with
// no token gets the slug appended as a final segment. Without a slug the
// token is removed.
//
// Listing kinds also get a query string. RawQuery is applied first, then
// each configured filter field replaces any raw value under the same key:
// filter-derived values always win.
func (r *Resolver) Resolve(req Request) Result {
	if r == nil || r.templates == nil {
		return Root
	}

	tpl, ok := r.templates[req.Kind]
	if !ok {
		return Root
	}

	path := tpl
	switch {
	case req.Slug != "" && HasToken(tpl):
		path = substitute(tpl, url.PathEscape(req.Slug))
	case req.Slug != "":
		path = tpl + "/" + url.PathEscape(req.Slug)
	default:
		path = substitute(tpl, "")
	}

	result := Result{Path: JoinPath(req.Locale, path)}
	if req.Kind.IsListing() {
		result.Query = r.buildQuery(req.RawQuery, req.Filters)
	}
	return result
}

func (r *Resolver) buildQuery(raw url.Values, filters domain.Filters) string {
	values := url.Values{}
	for key, vals := range raw {
		for _, v := range vals {
			values.Add(key, hyphenate(v))
		}
	}

	pairs := []struct {
		field  string
		values []string
	}{
		{field: r.queryFields.ContentType, values: filters.ContentTypes},
		{field: r.queryFields.Topic, values: filters.Topics},
		{field: r.queryFields.Product, values: filters.Products},
		{field: r.queryFields.Industry, values: filters.Industries},
	}

	for _, p := range pairs {
		if p.field == "" || len(p.values) == 0 {
			continue
		}
		values.Del(p.field)
		for _, v := range p.values {
			if v = hyphenate(v); v != "" {
				values.Add(p.field, v)
			}
		}
	}

	// Encode sorts by key, which keeps output deterministic.
	return values.Encode()
}

func hyphenate(v string) string {
	return strings.Join(strings.Fields(v), "-")
}

// JoinPath prefixes path with locale, collapses slash runs and strips a
// trailing slash. An empty result becomes "/".
func JoinPath(locale, path string) string {
	if locale != "" {
		path = "/" + locale + "/" + path
	}
	return Normalize(path)
}

// EscapePath percent-encodes every segment of a raw content path.
// Segments that are already escaped are decoded first so they are not
// encoded twice.
func EscapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if decoded, err := url.PathUnescape(seg); err == nil {
			seg = decoded
		}
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Normalize collapses slash runs, ensures a leading slash and strips a
// trailing one.
func Normalize(path string) string {
	path = slashRun.ReplaceAllLiteralString("/"+path, "/")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func stripSegment(tpl, segment string) string {
	parts := strings.Split(tpl, "/")
	kept := parts[:0]
	for _, p := range parts {
		if strings.EqualFold(p, segment) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}
