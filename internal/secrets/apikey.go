package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"leadgen-engine/internal/config"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "leadgen"

// PlacesAPIKey resolves the commercial source's API key: config value first,
// then the environment, then the OS keyring. A missing key is the one
// provider configuration error that aborts a run.
func PlacesAPIKey(cfg config.Config) (string, error) {
	if k := strings.TrimSpace(cfg.Google.APIKey); k != "" && k != "YOUR_GOOGLE_API_KEY_HERE" {
		return k, nil
	}
	if k := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); k != "" {
		return k, nil
	}
	if acct := strings.TrimSpace(cfg.Google.KeyringAccount); acct != "" {
		if k, err := keyring.Get(KeyringService, acct); err == nil && strings.TrimSpace(k) != "" {
			return k, nil
		}
	}
	return "", errors.New("google places api key not set (google.api_key, GOOGLE_API_KEY env, or keyring)")
}

func SetPlacesAPIKey(account, key string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeletePlacesAPIKey(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
