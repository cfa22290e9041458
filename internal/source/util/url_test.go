package util

import "testing"

func TestNormalizeWebsite(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"http://example.com?utm_source=fb", "http://example.com"},
		{"https://example.com/", "https://example.com"},
		{"https://example.com/?utm_source=maps&fbclid=x", "https://example.com"},
		{"https://example.com/about/?gclid=abc", "https://example.com/about"},
		{"  https://example.com  ", "https://example.com"},
		{"", ""},
		{"   ", ""},
		{"?utm_source=x", ""},
	}
	for _, c := range cases {
		if got := NormalizeWebsite(c.in); got != c.want {
			t.Errorf("NormalizeWebsite(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeWebsite_Idempotent(t *testing.T) {
	inputs := []string{
		"example.com",
		"https://example.com/path/?utm_source=x",
		"HTTP://Example.com/",
	}
	for _, in := range inputs {
		once := NormalizeWebsite(in)
		twice := NormalizeWebsite(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDomainForDedup(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://www.example.com", "example.com"},
		{"https://example.com/about", "example.com"},
		{"http://WWW.Example.COM/", "example.com"},
		{"example.com/contact", "example.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := DomainForDedup(c.in); got != c.want {
			t.Errorf("DomainForDedup(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	in := "Hauptstraße 1  \n 23"
	want := "Hauptstraße 1 23"
	if got := CleanText(in); got != want {
		t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
	}
}
