package domain

import "strings"

// RouteKind is the category of URL shape being resolved.
type RouteKind string

const (
	RouteHome        RouteKind = "home"
	RouteAllContent  RouteKind = "allContent"
	RouteContent     RouteKind = "content"
	RouteContentSlug RouteKind = "contentSlug"
	RouteTopic       RouteKind = "topic"
	RouteProduct     RouteKind = "product"
	RouteIndustry    RouteKind = "industry"
	RouteAuthor      RouteKind = "author"
	RouteAuthors     RouteKind = "authors"
	RouteSME         RouteKind = "sme"
	RouteSMEs        RouteKind = "smes"
)

// RouteKinds lists every kind in declaration order.
var RouteKinds = []RouteKind{
	RouteHome, RouteAllContent, RouteContent, RouteContentSlug,
	RouteTopic, RouteProduct, RouteIndustry,
	RouteAuthor, RouteAuthors, RouteSME, RouteSMEs,
}

// ParseRouteKind matches s case-insensitively against the known kinds.
func ParseRouteKind(s string) (RouteKind, bool) {
	for _, k := range RouteKinds {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// IsListing reports whether the kind carries a filter query string.
func (k RouteKind) IsListing() bool {
	switch k {
	case RouteAllContent, RouteTopic, RouteProduct, RouteIndustry:
		return true
	default:
		return false
	}
}

// QueryFields names the query-string parameter used for each listing filter.
type QueryFields struct {
	ContentType string `json:"content_type"`
	Topic       string `json:"topic"`
	Product     string `json:"product"`
	Industry    string `json:"industry"`
}

// RouteConfig is the per-site routing configuration.
type RouteConfig struct {
	Templates     map[RouteKind]string `json:"templates"`
	QueryFields   QueryFields          `json:"query_fields"`
	FallbackLabel string               `json:"fallback_label,omitempty"`
	// DefaultLanguage is the segment stripped from templates when
	// EmbedDefaultLanguage is false.
	DefaultLanguage      string `json:"default_language"`
	EmbedDefaultLanguage bool   `json:"embed_default_language"`
}

// Filters are the listing filters applied to allContent/topic/product/industry routes.
type Filters struct {
	ContentTypes []string `json:"content_types,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	Products     []string `json:"products,omitempty"`
	Industries   []string `json:"industries,omitempty"`
}

// IsEmpty reports whether no filter carries a value.
func (f Filters) IsEmpty() bool {
	return len(f.ContentTypes) == 0 && len(f.Topics) == 0 &&
		len(f.Products) == 0 && len(f.Industries) == 0
}
