package engine

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// cleanResultURL unwraps engine redirect URLs and normalizes the rest
// so that the same page reported by two engines carries the same URL.
// On any parse failure the raw href is returned unchanged.
func cleanResultURL(href string) string {
	href = unwrapRedirect(href)

	flags := purell.FlagLowercaseScheme |
		purell.FlagLowercaseHost |
		purell.FlagRemoveDefaultPort |
		purell.FlagDecodeUnnecessaryEscapes |
		purell.FlagRemoveDuplicateSlashes |
		purell.FlagRemoveDotSegments

	normalized, err := purell.NormalizeURLString(href, flags)
	if err != nil {
		return href
	}
	return normalized
}

// unwrapRedirect extracts the target from google's /url?q= indirection.
func unwrapRedirect(href string) string {
	if !strings.HasPrefix(href, "/url?") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if q := u.Query().Get("q"); q != "" {
		return q
	}
	return href
}
