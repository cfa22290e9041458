package harvest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
)

const defaultUserAgent = "leadgen-engine/1.0 (contact page lookup)"

type Config struct {
	UserAgent string
	MaxPages  int           // candidate pages fetched per site
	PageDelay time.Duration // politeness delay between page fetches
	Timeout   time.Duration
}

// Result is what one harvest run produced. SourcePages carries per-email
// page hints ("homepage", "page_1", ...) or "robots_blocked" when the site's
// robots policy denied us.
type Result struct {
	Emails      []string
	SourcePages string
}

// Harvester fetches a small bounded set of pages from a business website and
// extracts plausible public contact emails. Markup-only: no forms, no auth,
// no script execution. All failures degrade to an empty Result.
type Harvester struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Harvester {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Harvester{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (h *Harvester) Harvest(ctx context.Context, website string) Result {
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return Result{}
	}

	if !h.robotsAllowed(ctx, website) {
		log.Printf("[harvest] robots.txt blocks %s", website)
		return Result{SourcePages: "robots_blocked"}
	}

	var hits []emailHit

	for i, pageURL := range candidateURLs(website, h.cfg.MaxPages) {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && h.cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(h.cfg.PageDelay):
			}
		}

		html, err := h.fetchPage(ctx, pageURL)
		if err != nil {
			continue
		}

		label := "homepage"
		if i > 0 {
			label = fmt.Sprintf("page_%d", i)
		}
		for _, e := range extractEmails(html) {
			hits = append(hits, emailHit{email: e, page: label})
		}
	}

	return dedupHits(hits)
}

type emailHit struct {
	email string
	page  string
}

// dedupHits keeps emails in first-seen order across pages, each paired with
// the page label it first appeared on.
func dedupHits(hits []emailHit) Result {
	seen := map[string]bool{}
	var emails, pages []string
	for _, ht := range hits {
		if seen[ht.email] {
			continue
		}
		seen[ht.email] = true
		emails = append(emails, ht.email)
		pages = append(pages, ht.page)
	}
	return Result{Emails: emails, SourcePages: strings.Join(pages, ",")}
}

// robotsAllowed checks the site's robots policy for our user agent. Fetch
// errors allow the crawl (most small business sites have no robots.txt);
// only an explicit disallow blocks it.
func (h *Harvester) robotsAllowed(ctx context.Context, website string) bool {
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return false
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", h.cfg.UserAgent)

	res, err := h.hc.Do(req)
	if err != nil {
		return true
	}
	defer res.Body.Close()

	data, err := robotstxt.FromResponse(res)
	if err != nil {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return data.FindGroup(h.cfg.UserAgent).Test(path)
}

func (h *Harvester) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", h.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := h.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("status %d", res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// candidateURLs returns the site root plus the usual German/English contact
// page paths, deduplicated and truncated to maxPages.
func candidateURLs(website string, maxPages int) []string {
	u, err := url.Parse(website)
	if err != nil {
		return nil
	}
	base := u.Scheme + "://" + u.Host

	rootPath := strings.TrimRight(u.Path, "/")
	if rootPath == "" {
		rootPath = "/"
	}

	candidates := []string{
		base + rootPath,
		base + "/kontakt",
		base + "/contact",
		base + "/impressum",
	}

	seen := map[string]bool{}
	var out []string
	for _, c := range candidates {
		norm := strings.TrimRight(c, "/")
		if norm == "" {
			norm = c
		}
		if seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, c)
	}

	if len(out) > maxPages {
		out = out[:maxPages]
	}
	return out
}
