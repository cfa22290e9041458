package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	def := Default()
	if cfg.Collect.MaxLeads != def.Collect.MaxLeads {
		t.Fatalf("expected default max_leads %d, got %d", def.Collect.MaxLeads, cfg.Collect.MaxLeads)
	}
	if len(cfg.Catalog.Niches) == 0 || len(cfg.Catalog.Cities) == 0 {
		t.Fatal("default catalog must not be empty")
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoad_OverlaysOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
collect:
  max_leads: 25
catalog:
  cities: [Ulm]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Collect.MaxLeads != 25 {
		t.Fatalf("max_leads = %d, want 25", cfg.Collect.MaxLeads)
	}
	if len(cfg.Catalog.Cities) != 1 || cfg.Catalog.Cities[0] != "Ulm" {
		t.Fatalf("cities = %v", cfg.Catalog.Cities)
	}
	// untouched keys keep their defaults
	if cfg.Collect.Source != "osm" {
		t.Fatalf("source = %q, want osm default", cfg.Collect.Source)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	var cfg Config // everything zero
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"app.port", "collect.max_leads", "collect.source", "catalog.niches"} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation message missing %q:\n%s", want, msg)
		}
	}
}

func TestTagsForNiche(t *testing.T) {
	cfg := Default()
	if qs := cfg.TagsForNiche("Dentists"); len(qs) == 0 {
		t.Fatal("expected queries for Dentists")
	}
	if qs := cfg.TagsForNiche("Submarine dealers"); qs != nil {
		t.Fatalf("expected nil for unknown niche, got %v", qs)
	}
}

func TestResolveDataDir(t *testing.T) {
	cfg := Default()
	cfg.App.DataDir = "cfg-dir"

	if got := ResolveDataDir(cfg, "flag-dir"); got != "flag-dir" {
		t.Fatalf("override should win, got %q", got)
	}

	t.Setenv("LEADGEN_DATA_DIR", "env-dir")
	if got := ResolveDataDir(cfg, ""); got != "env-dir" {
		t.Fatalf("env should win over config, got %q", got)
	}

	t.Setenv("LEADGEN_DATA_DIR", "")
	t.Setenv("VERCEL", "1")
	if got := ResolveDataDir(cfg, ""); got != os.TempDir() {
		t.Fatalf("serverless should use temp dir, got %q", got)
	}

	t.Setenv("VERCEL", "")
	if got := ResolveDataDir(cfg, ""); got != "cfg-dir" {
		t.Fatalf("config dir should be the fallback, got %q", got)
	}
}
