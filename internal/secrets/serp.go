package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Groups the engine's secrets in the OS keychain.
	KeyringService = "prospect-engine"

	serpAccount = "serpapi"
)

// GetSerpKey resolves the SERP API key: keychain first, then environment for
// headless machines without one.
func GetSerpKey() (string, error) {
	key, err := keyring.Get(KeyringService, serpAccount)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), nil
	}

	if env := strings.TrimSpace(os.Getenv("SERPAPI_KEY")); env != "" {
		return env, nil
	}

	return "", errors.New("SERP API key not found (set it in keychain or via SERPAPI_KEY)")
}

func SetSerpKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, serpAccount, strings.TrimSpace(key))
}

func DeleteSerpKey() error {
	return keyring.Delete(KeyringService, serpAccount)
}
