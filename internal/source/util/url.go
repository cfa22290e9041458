package util

import (
	"net/url"
	"strings"
)

// NormalizeWebsite strips the query string (tracking params like utm_,
// fbclid, gclid) and any trailing slash, and defaults the scheme to https.
// Idempotent: normalizing a normalized URL is a no-op. Returns "" for inputs
// that cannot become a usable URL.
func NormalizeWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimRight(raw, "/")
	if raw == "" {
		return ""
	}
	low := strings.ToLower(raw)
	if !strings.HasPrefix(low, "http://") && !strings.HasPrefix(low, "https://") {
		raw = "https://" + raw
	}
	return raw
}

// DomainForDedup extracts the dedup key for a website: lower-cased host with
// a leading "www." stripped. Returns "" when there is no usable host, so
// website-less places never collide in the domain set.
func DomainForDedup(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	host := u.Host
	if host == "" {
		host = u.Path
	}
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// CleanText collapses whitespace runs (incl. non-breaking spaces) to single
// spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
