package secrets

import (
	"testing"

	"github.com/zalando/go-keyring"

	"leadgen-engine/internal/config"
)

func TestPlacesAPIKey_ResolutionOrder(t *testing.T) {
	keyring.MockInit()

	cfg := config.Default()
	cfg.Google.KeyringAccount = "test-places"

	// nothing set anywhere
	t.Setenv("GOOGLE_API_KEY", "")
	if _, err := PlacesAPIKey(cfg); err == nil {
		t.Fatal("expected error with no key configured")
	}

	// keyring is the last resort
	if err := SetPlacesAPIKey("test-places", "keyring-key"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if k, err := PlacesAPIKey(cfg); err != nil || k != "keyring-key" {
		t.Fatalf("got %q, %v", k, err)
	}

	// env beats keyring
	t.Setenv("GOOGLE_API_KEY", "env-key")
	if k, _ := PlacesAPIKey(cfg); k != "env-key" {
		t.Fatalf("env should win, got %q", k)
	}

	// config beats both, unless it is the placeholder
	cfg.Google.APIKey = "config-key"
	if k, _ := PlacesAPIKey(cfg); k != "config-key" {
		t.Fatalf("config should win, got %q", k)
	}
	cfg.Google.APIKey = "YOUR_GOOGLE_API_KEY_HERE"
	if k, _ := PlacesAPIKey(cfg); k != "env-key" {
		t.Fatalf("placeholder must be ignored, got %q", k)
	}
}

func TestSetAndDeletePlacesAPIKey(t *testing.T) {
	keyring.MockInit()

	if err := SetPlacesAPIKey("", "k"); err == nil {
		t.Fatal("empty account must be rejected")
	}
	if err := SetPlacesAPIKey("acct", ""); err == nil {
		t.Fatal("empty key must be rejected")
	}

	if err := SetPlacesAPIKey("acct", "k1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := DeletePlacesAPIKey("acct"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := keyring.Get(KeyringService, "acct"); err == nil {
		t.Fatal("key should be gone after delete")
	}
}
