package domain

// ContentQuery is one page request against the content backend. Empty
// fields do not filter.
type ContentQuery struct {
	Language    string
	PathPrefix  string
	TemplateIDs []string
	// Fields are exact-match filters on boolean or string fields.
	Fields map[string]any
	// After is the previous page's EndCursor.
	After *string
	Size  int
}

// ContentPage is one page of backend results.
type ContentPage struct {
	Results  []HarvestedItem
	PageInfo PageCursor
	Total    int
}
