package collect

import (
	"net/url"
	"strings"
)

// Hosts with content that rarely survives SEO competitive analysis:
// social, video, Q&A, wikis, pin boards.
var blockedDomains = map[string]struct{}{
	"reddit.com":        {},
	"www.reddit.com":    {},
	"quora.com":         {},
	"www.quora.com":     {},
	"youtube.com":       {},
	"www.youtube.com":   {},
	"youtu.be":          {},
	"pinterest.com":     {},
	"www.pinterest.com": {},
	"wikipedia.org":     {},
	"www.wikipedia.org": {},
}

var blockedPathHints = []string{
	"/forum",
	"/forums",
	"/products",
	"/shop",
	"/category",
	"/tag",
}

// IsAcceptableURL reports whether a candidate URL is worth analyzing:
// http(s) scheme, not on the domain deny-list, no blocked path hints.
func IsAcceptableURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	host := strings.ToLower(parsed.Host)
	if _, blocked := blockedDomains[host]; blocked {
		return false
	}

	path := strings.ToLower(parsed.Path)
	for _, hint := range blockedPathHints {
		if strings.Contains(path, hint) {
			return false
		}
	}

	return true
}

// SelectTopURLs filters candidates preserving order and truncates to
// maxURLs. An empty result is not an error here; emptiness is the
// caller's recoverable condition.
func SelectTopURLs(urls []string, maxURLs int) []string {
	var filtered []string
	for _, u := range urls {
		if IsAcceptableURL(u) {
			filtered = append(filtered, u)
		}
	}
	if len(filtered) > maxURLs {
		filtered = filtered[:maxURLs]
	}
	return filtered
}
