package domain

import "slices"

// TemplateFamilies groups the template identifiers wildcard pages are
// built from.
type TemplateFamilies struct {
	Author   []string `yaml:"author"`
	Content  []string `yaml:"content"`
	Industry []string `yaml:"industry"`
}

// All returns every template identifier across families, in family order.
func (f TemplateFamilies) All() []string {
	out := make([]string, 0, len(f.Author)+len(f.Content)+len(f.Industry))
	out = append(out, f.Author...)
	out = append(out, f.Content...)
	out = append(out, f.Industry...)
	return out
}

// Classify maps a template identifier and alternate flag to a route kind.
// Alternate authors are subject-matter experts.
func (f TemplateFamilies) Classify(templateID string, alternate bool) (RouteKind, bool) {
	switch {
	case slices.Contains(f.Author, templateID):
		if alternate {
			return RouteSME, true
		}
		return RouteAuthor, true
	case slices.Contains(f.Content, templateID):
		return RouteContentSlug, true
	case slices.Contains(f.Industry, templateID):
		return RouteIndustry, true
	default:
		return "", false
	}
}

// HarvestedItem is one content item as returned by the backend. Priority,
// ChangeFrequency and LastModified keep their upstream shapes.
type HarvestedItem struct {
	ID              string `json:"item_id"`
	Path            string `json:"path"`
	Language        string `json:"language"`
	TemplateID      string `json:"template_id,omitempty"`
	Slug            string `json:"slug,omitempty"`
	IsAlternate     *bool  `json:"is_alternate,omitempty"`
	Priority        any    `json:"priority,omitempty"`
	ChangeFrequency any    `json:"change_frequency,omitempty"`
	LastModified    string `json:"updated,omitempty"`
}

// Alternate reports the alternate-variant flag, false when absent.
func (h *HarvestedItem) Alternate() bool {
	return h.IsAlternate != nil && *h.IsAlternate
}

// PageCursor marks where the next page resumes.
type PageCursor struct {
	// EndCursor is nil before the first page.
	EndCursor *string
	HasNext   bool
}
