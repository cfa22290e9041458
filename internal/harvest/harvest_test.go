package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestHarvest_RobotsBlockedFetchesNoPages(t *testing.T) {
	var pageFetches int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pageFetches, 1)
		fmt.Fprint(w, `<a href="mailto:info@blocked-biz.example">mail</a>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := New(Config{MaxPages: 4})
	res := h.Harvest(context.Background(), srv.URL)

	if len(res.Emails) != 0 {
		t.Fatalf("expected no emails, got %v", res.Emails)
	}
	if res.SourcePages != "robots_blocked" {
		t.Fatalf("SourcePages = %q, want robots_blocked", res.SourcePages)
	}
	if n := atomic.LoadInt32(&pageFetches); n != 0 {
		t.Fatalf("expected 0 content fetches, got %d", n)
	}
}

func TestHarvest_MultiPageDedupAndLabels(t *testing.T) {
	mux := http.NewServeMux()
	// no robots.txt handler: the 404 is treated as "no policy"
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="mailto:info@harvest-biz.example">mail</a>`)
	})
	mux.HandleFunc("/kontakt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `info@harvest-biz.example und hello@harvest-biz.example`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := New(Config{MaxPages: 2})
	res := h.Harvest(context.Background(), srv.URL)

	want := []string{"info@harvest-biz.example", "hello@harvest-biz.example"}
	if len(res.Emails) != len(want) {
		t.Fatalf("emails = %v, want %v", res.Emails, want)
	}
	for i := range want {
		if res.Emails[i] != want[i] {
			t.Fatalf("emails = %v, want %v", res.Emails, want)
		}
	}
	if res.SourcePages != "homepage,page_1" {
		t.Fatalf("SourcePages = %q, want homepage,page_1", res.SourcePages)
	}
}

func TestHarvest_IgnoresNonHTTPWebsites(t *testing.T) {
	h := New(Config{})
	res := h.Harvest(context.Background(), "ftp://biz.example")
	if len(res.Emails) != 0 || res.SourcePages != "" {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestCandidateURLs(t *testing.T) {
	got := candidateURLs("https://biz.example", 4)
	want := []string{
		"https://biz.example/",
		"https://biz.example/kontakt",
		"https://biz.example/contact",
		"https://biz.example/impressum",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if got := candidateURLs("https://biz.example", 2); len(got) != 2 {
		t.Fatalf("maxPages not applied: %v", got)
	}
}
