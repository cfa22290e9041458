package harvest

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	emailPattern = regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Local parts that are long hex strings are machine-generated tracking
	// IDs (Wix/Sentry and friends), not contact addresses.
	hexIDPattern = regexp.MustCompile(`(?i)^[a-f0-9]{20,}$`)
)

// Exact-match placeholder and platform-internal domains.
var invalidDomains = map[string]bool{
	"example.com":              true,
	"example.org":              true,
	"example.net":              true,
	"test.com":                 true,
	"placeholder.com":          true,
	"email.com":                true,
	"domain.com":               true,
	"sentry.io":                true,
	"wixpress.com":             true,
	"sentry.wixpress.com":      true,
	"sentry-next.wixpress.com": true,
	"yoursite.com":             true,
	"youremail.com":            true,
}

// Suffix-matched internal analytics domains.
var invalidDomainSuffixes = []string{
	".wixpress.com",
	".sentry.io",
}

// extractEmails pulls plausible contact addresses from page markup: mailto
// anchors first, then a pattern scan over the raw HTML. Order is first-seen;
// duplicates within the page are dropped.
func extractEmails(html string) []string {
	seen := map[string]bool{}
	var out []string

	add := func(email string) {
		email = strings.TrimSpace(email)
		if email == "" || seen[email] {
			return
		}
		if !validEmail(email) {
			return
		}
		seen[email] = true
		out = append(out, email)
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find(`a[href^="mailto:"]`).Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			addr := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			add(addr)
		})
	}

	for _, m := range emailPattern.FindAllString(html, -1) {
		if strings.ContainsAny(m, " \n") {
			continue
		}
		add(m)
	}

	return out
}

// validEmail rejects placeholder, analytics-internal and machine-generated
// addresses plus matches embedded in image or data URIs.
func validEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(email))

	at := strings.LastIndex(lower, "@")
	if at <= 0 || at == len(lower)-1 {
		return false
	}
	local, domain := lower[:at], lower[at+1:]

	if invalidDomains[domain] {
		return false
	}
	for _, suffix := range invalidDomainSuffixes {
		if strings.HasSuffix(domain, suffix) || domain == strings.TrimPrefix(suffix, ".") {
			return false
		}
	}
	if hexIDPattern.MatchString(local) {
		return false
	}
	if strings.HasPrefix(email, "data:") ||
		strings.Contains(lower, ".png") || strings.Contains(lower, ".jpg") {
		return false
	}
	return true
}
