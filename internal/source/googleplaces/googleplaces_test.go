package googleplaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"leadgen-engine/internal/source"
)

func testClient(baseURL string, minText int) *Client {
	return New(Config{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		MinTextResults: minText,
		APIDelay:       time.Millisecond,
		TokenDelay:     time.Millisecond,
		RetryBaseDelay: time.Millisecond,
	})
}

func writeBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func detailsFor(placeID, website string) map[string]any {
	lat, lng := 48.4, 9.99
	result := map[string]any{
		"place_id":          placeID,
		"name":              "Praxis " + placeID,
		"formatted_address": "Hauptstraße 1, Ulm",
		"geometry":          map[string]any{"location": map[string]any{"lat": lat, "lng": lng}},
	}
	if website != "" {
		result["website"] = website
	}
	return map[string]any{"status": "OK", "result": result}
}

func TestFetch_DropsDetailsWithoutWebsite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]any{
			"status":  "OK",
			"results": []map[string]any{{"place_id": "p1"}, {"place_id": "p2"}},
		})
	})
	mux.HandleFunc("/maps/api/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("place_id") {
		case "p1":
			writeBody(w, detailsFor("p1", "praxis-one.example/?utm_source=google"))
		default:
			writeBody(w, detailsFor("p2", ""))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL, 1)
	got, err := c.Fetch(context.Background(), "dentist", "Ulm")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 place, got %d", len(got))
	}
	if got[0].ID != "p1" {
		t.Fatalf("kept the wrong place: %+v", got[0])
	}
	if got[0].Website != "https://praxis-one.example" {
		t.Fatalf("website not normalized: %q", got[0].Website)
	}
}

func TestFetch_FollowsPageTokens(t *testing.T) {
	var sawToken atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		if tok := r.URL.Query().Get("pagetoken"); tok != "" {
			if tok != "tok-2" {
				t.Errorf("pagetoken = %q, want tok-2", tok)
			}
			sawToken.Store(true)
			writeBody(w, map[string]any{
				"status":  "OK",
				"results": []map[string]any{{"place_id": "p2"}},
			})
			return
		}
		writeBody(w, map[string]any{
			"status":          "OK",
			"next_page_token": "tok-2",
			"results":         []map[string]any{{"place_id": "p1"}},
		})
	})
	mux.HandleFunc("/maps/api/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		pid := r.URL.Query().Get("place_id")
		writeBody(w, detailsFor(pid, "https://"+pid+".example"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL, 1)
	got, err := c.Fetch(context.Background(), "dentist", "Ulm")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 places across pages, got %d", len(got))
	}
	if !sawToken.Load() {
		t.Fatal("continuation page never requested")
	}
}

func TestFetch_RetriesAfterRateLimit(t *testing.T) {
	var searchCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&searchCalls, 1) == 1 {
			writeBody(w, map[string]any{"status": "OVER_QUERY_LIMIT"})
			return
		}
		writeBody(w, map[string]any{
			"status":  "OK",
			"results": []map[string]any{{"place_id": "p1"}},
		})
	})
	mux.HandleFunc("/maps/api/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, detailsFor("p1", "https://p1.example"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL, 1)
	got, err := c.Fetch(context.Background(), "dentist", "Ulm")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 place after retry, got %d", len(got))
	}
	if n := atomic.LoadInt32(&searchCalls); n != 2 {
		t.Fatalf("expected 2 search calls, got %d", n)
	}
}

func TestFetch_StalePageTokenDoesNotSurviveRetry(t *testing.T) {
	var searchCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		if tok := r.URL.Query().Get("pagetoken"); tok != "" {
			t.Errorf("continuation requested with token %q from a failed attempt", tok)
		}
		if atomic.AddInt32(&searchCalls, 1) == 1 {
			// rate-limited body that still carries a token; the retry
			// must not follow it
			writeBody(w, map[string]any{
				"status":          "OVER_QUERY_LIMIT",
				"next_page_token": "stale-tok",
			})
			return
		}
		writeBody(w, map[string]any{
			"status":  "OK",
			"results": []map[string]any{{"place_id": "p1"}},
		})
	})
	mux.HandleFunc("/maps/api/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, detailsFor("p1", "https://p1.example"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL, 1)
	got, err := c.Fetch(context.Background(), "dentist", "Ulm")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 place, got %d", len(got))
	}
	if n := atomic.LoadInt32(&searchCalls); n != 2 {
		t.Fatalf("expected 2 search calls, got %d", n)
	}
}

func TestFetch_NearbyFallbackOnThinResults(t *testing.T) {
	var nearbyCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]any{"status": "ZERO_RESULTS"})
	})
	mux.HandleFunc("/maps/api/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string]any{
			"status": "OK",
			"results": []map[string]any{{
				"geometry": map[string]any{"location": map[string]any{"lat": 48.4, "lng": 9.99}},
			}},
		})
	})
	mux.HandleFunc("/maps/api/place/nearbysearch/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&nearbyCalls, 1)
		writeBody(w, map[string]any{
			"status":  "OK",
			"results": []map[string]any{{"place_id": "p1"}},
		})
	})
	mux.HandleFunc("/maps/api/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, detailsFor("p1", "https://p1.example"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv.URL, 5)
	got, err := c.Fetch(context.Background(), "dentist", "Ulm")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 place from fallback, got %d", len(got))
	}
	if atomic.LoadInt32(&nearbyCalls) != 1 {
		t.Fatal("nearby search never called")
	}
}

func TestStatusErr(t *testing.T) {
	if err := statusErr("OK", ""); err != nil {
		t.Errorf("OK should be nil, got %v", err)
	}
	if err := statusErr("ZERO_RESULTS", ""); err != nil {
		t.Errorf("ZERO_RESULTS should be nil, got %v", err)
	}
	if err := statusErr("OVER_QUERY_LIMIT", ""); !errors.Is(err, source.ErrRateLimited) {
		t.Errorf("OVER_QUERY_LIMIT should map to ErrRateLimited, got %v", err)
	}
	if err := statusErr("REQUEST_DENIED", "key invalid"); err == nil {
		t.Error("REQUEST_DENIED should error")
	}
}

func TestNormalizeDetails_CleansText(t *testing.T) {
	lat, lng := 48.4, 9.99
	d := placeDetails{
		PlaceID:          "p",
		Name:             "Praxis\u00a0Müller",
		FormattedAddress: "Hauptstraße 1,\n Ulm",
		Website:          "https://p.example",
	}
	d.Geometry.Location.Lat = &lat
	d.Geometry.Location.Lng = &lng

	out := normalizeDetails(d)
	if !out.OK() {
		t.Fatalf("skipped: %q", out.Skipped)
	}
	if out.Place.Name != "Praxis Müller" {
		t.Errorf("Name = %q", out.Place.Name)
	}
	if out.Place.FormattedAddress != "Hauptstraße 1, Ulm" {
		t.Errorf("FormattedAddress = %q", out.Place.FormattedAddress)
	}
}

func TestNormalizeDetails_SkipReasons(t *testing.T) {
	lat, lng := 48.4, 9.99

	full := placeDetails{PlaceID: "p", FormattedAddress: "addr", Website: "https://p.example"}
	full.Geometry.Location.Lat = &lat
	full.Geometry.Location.Lng = &lng
	if out := normalizeDetails(full); !out.OK() {
		t.Fatalf("complete record skipped: %q", out.Skipped)
	}

	noID := full
	noID.PlaceID = ""
	if out := normalizeDetails(noID); out.Skipped != source.SkipNoID {
		t.Errorf("skip = %q, want %q", out.Skipped, source.SkipNoID)
	}

	noCoords := full
	noCoords.Geometry.Location.Lat = nil
	if out := normalizeDetails(noCoords); out.Skipped != source.SkipNoCoords {
		t.Errorf("skip = %q, want %q", out.Skipped, source.SkipNoCoords)
	}

	noSite := full
	noSite.Website = ""
	if out := normalizeDetails(noSite); out.Skipped != source.SkipNoWebsite {
		t.Errorf("skip = %q, want %q", out.Skipped, source.SkipNoWebsite)
	}
}
