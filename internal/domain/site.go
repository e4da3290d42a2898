// Package domain holds the types shared by the registry, harvester,
// resolver and sitemap compiler.
package domain

import "strings"

// SitemapSettings toggles optional urlset fields per site.
type SitemapSettings struct {
	ExcludeLastMod         bool `json:"exclude_last_mod"`
	ExcludePriority        bool `json:"exclude_priority"`
	ExcludeChangeFrequency bool `json:"exclude_change_frequency"`
}

// SiteDescriptor describes one logical site.
type SiteDescriptor struct {
	Name      string   `json:"name"`
	HostNames []string `json:"hostnames"`
	RootID    string   `json:"root_id"`
	// RootPath prefixes every declared page of the site.
	RootPath             string          `json:"root_path"`
	DefaultLanguage      string          `json:"default_language"`
	Languages            []string        `json:"languages"`
	EmbedDefaultLanguage bool            `json:"embed_default_language"`
	Sitemap              SitemapSettings `json:"sitemap"`
	// RouteConfig is the routing configuration for DefaultLanguage.
	RouteConfig RouteConfig `json:"route_config"`
	// ShowIn scopes wildcard harvesting to items published on this site.
	ShowIn string `json:"show_in,omitempty"`
}

// HasLanguage reports whether lang is configured, ignoring case.
func (s *SiteDescriptor) HasLanguage(lang string) (string, bool) {
	for _, l := range s.Languages {
		if strings.EqualFold(l, lang) {
			return l, true
		}
	}
	return "", false
}

// IsDefaultLanguage reports whether lang is the site's default language.
func (s *SiteDescriptor) IsDefaultLanguage(lang string) bool {
	return strings.EqualFold(s.DefaultLanguage, lang)
}

// LocalePrefix returns the path segment URLs in lang start with. The
// default language has none unless EmbedDefaultLanguage is set.
func (s *SiteDescriptor) LocalePrefix(lang string) string {
	if !s.EmbedDefaultLanguage && s.IsDefaultLanguage(lang) {
		return ""
	}
	return lang
}

// SiteSettings is the per-language configuration returned by the site
// configuration source.
type SiteSettings struct {
	Templates     map[RouteKind]string `json:"templates"`
	QueryFields   QueryFields          `json:"query_fields"`
	FallbackLabel string               `json:"fallback_label,omitempty"`
	ShowIn        string               `json:"show_in,omitempty"`
}

// RouteConfigFor combines site-level and settings-level values.
func (s *SiteDescriptor) RouteConfigFor(settings *SiteSettings) RouteConfig {
	return RouteConfig{
		Templates:            settings.Templates,
		QueryFields:          settings.QueryFields,
		FallbackLabel:        settings.FallbackLabel,
		DefaultLanguage:      s.DefaultLanguage,
		EmbedDefaultLanguage: s.EmbedDefaultLanguage,
	}
}
