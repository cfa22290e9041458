package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
)

const (
	defaultOverpassURL  = "https://overpass-api.de/api/interpreter"
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent    = "leadgen-engine/1.0 (business lead collection)"
)

type Config struct {
	Country   string
	Tags      map[string][]config.TagQuery // niche -> Overpass queries
	APIDelay  time.Duration
	UserAgent string

	// Endpoint overrides, for tests.
	OverpassURL  string
	NominatimURL string
}

// Client is the free/open-data source: Nominatim resolves a city to a
// bounding box (cached per city+country for the process lifetime), then one
// Overpass query per configured tag pair yields POIs inside it.
type Client struct {
	cfg          Config
	hc           *http.Client
	limiter      *rate.Limiter
	overpassURL  string
	nominatimURL string

	mu        sync.Mutex
	bboxCache map[string]bbox
}

// bbox is (south, west, north, east).
type bbox struct {
	South, West, North, East float64
}

func New(cfg Config) *Client {
	if cfg.Country == "" {
		cfg.Country = "Germany"
	}
	if cfg.APIDelay <= 0 {
		cfg.APIDelay = time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	overpassURL := cfg.OverpassURL
	if overpassURL == "" {
		overpassURL = defaultOverpassURL
	}
	nominatimURL := cfg.NominatimURL
	if nominatimURL == "" {
		nominatimURL = defaultNominatimURL
	}
	return &Client{
		cfg:          cfg,
		hc:           &http.Client{Timeout: 18 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(cfg.APIDelay), 1),
		overpassURL:  overpassURL,
		nominatimURL: nominatimURL,
		bboxCache:    make(map[string]bbox),
	}
}

func (c *Client) Name() string { return "osm" }

func (c *Client) Fetch(ctx context.Context, niche, city string) ([]domain.Place, error) {
	queries := c.cfg.Tags[niche]
	if len(queries) == 0 {
		log.Printf("[osm] no tag mapping for niche %q", niche)
		return nil, nil
	}

	bb, err := c.cityBBox(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("bbox for %s: %w", city, err)
	}

	seen := map[string]bool{}
	var all []domain.Place
	for _, q := range queries {
		places, err := c.queryOverpass(ctx, bb, q)
		if err != nil {
			log.Printf("[osm] overpass %s=%s failed: %v", q.Key, q.Value, err)
			continue
		}
		for _, p := range places {
			if !seen[p.ID] {
				seen[p.ID] = true
				all = append(all, p)
			}
		}
	}
	return all, nil
}

// cityBBox resolves and caches a city's bounding box. Nominatim is heavily
// rate-limited and bboxes are stable, so one lookup per city+country.
func (c *Client) cityBBox(ctx context.Context, city string) (bbox, error) {
	key := strings.TrimSpace(city) + "|" + strings.TrimSpace(c.cfg.Country)

	c.mu.Lock()
	if bb, ok := c.bboxCache[key]; ok {
		c.mu.Unlock()
		return bb, nil
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return bbox{}, err
	}

	p := url.Values{
		"q":      {fmt.Sprintf("%s, %s", city, c.cfg.Country)},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nominatimURL+"?"+p.Encode(), nil)
	if err != nil {
		return bbox{}, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	res, err := c.hc.Do(req)
	if err != nil {
		return bbox{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return bbox{}, fmt.Errorf("nominatim status %d", res.StatusCode)
	}

	var results []struct {
		Lat         string   `json:"lat"`
		Lon         string   `json:"lon"`
		BoundingBox []string `json:"boundingbox"`
	}
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return bbox{}, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return bbox{}, fmt.Errorf("no geocoding result for %q", city)
	}

	bb, err := bboxFromResult(results[0].BoundingBox, results[0].Lat, results[0].Lon)
	if err != nil {
		return bbox{}, err
	}

	c.mu.Lock()
	c.bboxCache[key] = bb
	c.mu.Unlock()
	return bb, nil
}

// bboxFromResult parses Nominatim's [south, north, west, east] string box,
// falling back to a small box around the point when the box is absent.
func bboxFromResult(box []string, lat, lon string) (bbox, error) {
	if len(box) == 4 {
		var f [4]float64
		ok := true
		for i, s := range box {
			if _, err := fmt.Sscanf(s, "%f", &f[i]); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return bbox{South: f[0], North: f[1], West: f[2], East: f[3]}, nil
		}
	}

	var la, lo float64
	if _, err := fmt.Sscanf(lat, "%f", &la); err != nil {
		return bbox{}, fmt.Errorf("unusable geocoding result")
	}
	if _, err := fmt.Sscanf(lon, "%f", &lo); err != nil {
		return bbox{}, fmt.Errorf("unusable geocoding result")
	}
	const delta = 0.05
	return bbox{South: la - delta, West: lo - delta, North: la + delta, East: lo + delta}, nil
}

func (c *Client) queryOverpass(ctx context.Context, bb bbox, q config.TagQuery) ([]domain.Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := buildOverpassQuery(bb, q.Key, q.Value)
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.overpassURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("overpass status %d", res.StatusCode)
	}

	var payload struct {
		Elements []element `json:"elements"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	var places []domain.Place
	for _, el := range payload.Elements {
		out := elementOutcome(el, q.Key, q.Value)
		if out.OK() {
			places = append(places, out.Place)
		}
	}
	return places, nil
}

func buildOverpassQuery(bb bbox, tagKey, tagValue string) string {
	box := fmt.Sprintf("(%f,%f,%f,%f)", bb.South, bb.West, bb.North, bb.East)
	return fmt.Sprintf(
		"[out:json][timeout:25];(node[%[1]q=%[2]q]%[3]s;way[%[1]q=%[2]q]%[3]s;);out center body;",
		tagKey, tagValue, box,
	)
}
