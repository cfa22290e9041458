package googleplaces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/source"
	"leadgen-engine/internal/source/util"
)

const defaultBaseURL = "https://maps.googleapis.com"

// DefaultFields is the Place Details field mask fetched per result.
var DefaultFields = []string{
	"place_id", "name", "formatted_address", "geometry", "website",
	"formatted_phone_number", "url", "rating", "user_ratings_total", "types",
}

type Config struct {
	APIKey         string
	Country        string
	Fields         []string
	MinTextResults int           // below this, fall back to a nearby search
	NearbyRadiusM  int           // radius for the nearby fallback
	APIDelay       time.Duration // pacing between provider calls
	TokenDelay     time.Duration // settle time before a next_page_token is usable
	RetryBaseDelay time.Duration // first backoff step on rate limiting

	// BaseURL overrides the API host, for tests.
	BaseURL string
}

// Client is the commercial Places source: text search with token pagination,
// a details lookup per result, and a nearby-search fallback when the text
// query comes up short.
type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *rate.Limiter
	baseURL string
}

func New(cfg Config) *Client {
	if cfg.Country == "" {
		cfg.Country = "Germany"
	}
	if len(cfg.Fields) == 0 {
		cfg.Fields = DefaultFields
	}
	if cfg.MinTextResults <= 0 {
		cfg.MinTextResults = 5
	}
	if cfg.NearbyRadiusM <= 0 {
		cfg.NearbyRadiusM = 15000
	}
	if cfg.APIDelay <= 0 {
		cfg.APIDelay = 500 * time.Millisecond
	}
	if cfg.TokenDelay <= 0 {
		cfg.TokenDelay = 2 * time.Second
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 2 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 9 * time.Second},
		limiter: rate.NewLimiter(rate.Every(cfg.APIDelay), 1),
		baseURL: baseURL,
	}
}

func (c *Client) Name() string { return "google" }

func (c *Client) Fetch(ctx context.Context, niche, city string) ([]domain.Place, error) {
	query := fmt.Sprintf("%s in %s, %s", niche, city, c.cfg.Country)
	log.Printf("[google] text search: %s", query)

	raw, err := c.textSearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	// Dedup within this call only; the cross-run ledger lives upstream.
	seenIDs := map[string]bool{}
	seenDomains := map[string]bool{}
	var places []domain.Place

	hydrate := func(ids []string) {
		for _, pid := range ids {
			if pid == "" || seenIDs[pid] {
				continue
			}
			out, err := c.placeDetails(ctx, pid)
			if err != nil {
				log.Printf("[google] details %s: %v", pid, err)
				continue
			}
			if !out.OK() {
				continue
			}
			dom := util.DomainForDedup(out.Place.Website)
			if seenDomains[dom] {
				continue
			}
			seenDomains[dom] = true
			seenIDs[pid] = true
			places = append(places, out.Place)
		}
	}

	hydrate(placeIDs(raw))

	if len(places) < c.cfg.MinTextResults && len(raw) < c.cfg.MinTextResults {
		lat, lng, ok := c.geocodeCity(ctx, city)
		if ok {
			log.Printf("[google] nearby fallback for %s in %s", niche, city)
			nearby, err := c.nearbySearch(ctx, lat, lng, niche)
			if err != nil {
				log.Printf("[google] nearby search: %v", err)
			} else {
				hydrate(placeIDs(nearby))
			}
		}
	}

	return places, nil
}

type searchItem struct {
	PlaceID string `json:"place_id"`
}

type searchResponse struct {
	Status        string       `json:"status"`
	ErrorMessage  string       `json:"error_message"`
	NextPageToken string       `json:"next_page_token"`
	Results       []searchItem `json:"results"`
}

type detailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
	Result       placeDetails `json:"result"`
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func placeIDs(items []searchItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.PlaceID != "" {
			out = append(out, it.PlaceID)
		}
	}
	return out
}

func (c *Client) textSearch(ctx context.Context, query string) ([]searchItem, error) {
	params := url.Values{"query": {query}}
	return c.paginatedSearch(ctx, "/maps/api/place/textsearch/json", params)
}

func (c *Client) nearbySearch(ctx context.Context, lat, lng float64, keyword string) ([]searchItem, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", lat, lng)},
		"keyword":  {keyword},
		"radius":   {fmt.Sprint(c.cfg.NearbyRadiusM)},
	}
	return c.paginatedSearch(ctx, "/maps/api/place/nearbysearch/json", params)
}

// paginatedSearch walks next_page_token pages. The provider needs a moment to
// materialize each continuation page, hence the token delay before following
// one. A failure on a continuation page returns the partial result.
func (c *Client) paginatedSearch(ctx context.Context, path string, params url.Values) ([]searchItem, error) {
	var all []searchItem
	pageToken := ""

	for {
		if pageToken != "" {
			if err := sleepCtx(ctx, c.cfg.TokenDelay); err != nil {
				return all, err
			}
		}

		p := url.Values{}
		if pageToken != "" {
			p.Set("pagetoken", pageToken)
		} else {
			for k, vs := range params {
				p[k] = vs
			}
		}

		var resp searchResponse
		err := c.withRetry(ctx, func() error {
			// fresh struct per attempt so a field decoded on a failed try
			// (like next_page_token) can't leak into the next one
			resp = searchResponse{}
			if err := c.getJSON(ctx, path, p, &resp); err != nil {
				return err
			}
			return statusErr(resp.Status, resp.ErrorMessage)
		})
		if err != nil {
			if len(all) == 0 {
				return nil, err
			}
			log.Printf("[google] search page failed, keeping %d results: %v", len(all), err)
			return all, nil
		}

		all = append(all, resp.Results...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *Client) placeDetails(ctx context.Context, placeID string) (source.Outcome, error) {
	p := url.Values{
		"place_id": {placeID},
		"fields":   {strings.Join(c.cfg.Fields, ",")},
	}
	var resp detailsResponse
	err := c.withRetry(ctx, func() error {
		resp = detailsResponse{}
		if err := c.getJSON(ctx, "/maps/api/place/details/json", p, &resp); err != nil {
			return err
		}
		return statusErr(resp.Status, resp.ErrorMessage)
	})
	if err != nil {
		return source.Skip(source.SkipNoID), err
	}
	return normalizeDetails(resp.Result), nil
}

func (c *Client) geocodeCity(ctx context.Context, city string) (lat, lng float64, ok bool) {
	p := url.Values{"address": {fmt.Sprintf("%s, %s", city, c.cfg.Country)}}
	var resp geocodeResponse
	err := c.withRetry(ctx, func() error {
		resp = geocodeResponse{}
		if err := c.getJSON(ctx, "/maps/api/geocode/json", p, &resp); err != nil {
			return err
		}
		return statusErr(resp.Status, "")
	})
	if err != nil {
		log.Printf("[google] geocode %s: %v", city, err)
		return 0, 0, false
	}
	if len(resp.Results) == 0 {
		return 0, 0, false
	}
	loc := resp.Results[0].Geometry.Location
	log.Printf("[google] geocoded %s -> (%.4f, %.4f)", city, loc.Lat, loc.Lng)
	return loc.Lat, loc.Lng, true
}

// getJSON issues one paced API call and maps rate-limit signals (HTTP 429 or
// status OVER_QUERY_LIMIT) to source.ErrRateLimited.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("key", c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return source.ErrRateLimited
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("places api status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

// statusErr maps the provider's in-body status field to an error.
func statusErr(status, msg string) error {
	switch status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	case "OVER_QUERY_LIMIT", "RESOURCE_EXHAUSTED":
		return source.ErrRateLimited
	default:
		if msg != "" {
			return fmt.Errorf("places api %s: %s", status, msg)
		}
		return fmt.Errorf("places api %s", status)
	}
}

// withRetry retries rate-limited calls with exponential backoff (base delay
// doubling per attempt, capped at 5 attempts). Other errors pass through.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	delay := c.cfg.RetryBaseDelay
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, source.ErrRateLimited) {
			return err
		}
		log.Printf("[google] rate limited, backing off %s (attempt %d)", delay, attempt)
		if serr := sleepCtx(ctx, delay); serr != nil {
			return serr
		}
		delay *= 2
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
