package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigurationMissing means no site maps to the request host.
	ErrConfigurationMissing = errors.New("site configuration missing")
	// ErrUnresolvableItem means an item could not be turned into a URL.
	ErrUnresolvableItem = errors.New("item cannot be resolved to a url")
	// ErrCompilationFailure wraps unexpected errors while building a document.
	ErrCompilationFailure = errors.New("sitemap compilation failed")
)

// InvalidLocaleError is returned for a locale outside the site's languages.
type InvalidLocaleError struct {
	Locale    string
	Available []string
}

func (e *InvalidLocaleError) Error() string {
	return fmt.Sprintf("invalid locale %q, available: %s", e.Locale, strings.Join(e.Available, ", "))
}

// UpstreamFetchError is one failed page fetch for one language.
type UpstreamFetchError struct {
	Strategy string
	Language string
	Page     int
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("%s harvest of %s failed on page %d: %v", e.Strategy, e.Language, e.Page, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
