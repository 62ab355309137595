package services

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/99designs/keyring"
)

const serviceName = "pricep"

// Provider ids whose secrets the keyring holds.
const (
	ProviderPriceAPI  = "pricep-api"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// OpenKeyring opens the OS keyring, or the given backend when set. The file
// backend reads its passphrase from PRICEP_KEYRING_PASSWORD.
func OpenKeyring(backend, fileDir string) (keyring.Keyring, error) {
	if fileDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		fileDir = filepath.Join(configDir, serviceName, "keys")
	}
	cfg := keyring.Config{
		ServiceName:      serviceName,
		FileDir:          fileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(os.Getenv("PRICEP_KEYRING_PASSWORD")),
	}
	if backend != "" {
		cfg.AllowedBackends = []keyring.BackendType{keyring.BackendType(backend)}
	}
	return keyring.Open(cfg)
}

type KeyringService struct {
	ring keyring.Keyring
}

func NewKeyringService(ring keyring.Keyring) *KeyringService {
	return &KeyringService{ring: ring}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}

	return s.ring.Set(keyring.Item{
		Key:         provider,
		Data:        apiKey,
		Label:       provider + " API key",
		Description: "API key for " + provider + " used by pricep",
	})
}

// GetApiKey returns the stored key, or "" when none is stored.
func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	item, err := s.ring.Get(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	err := s.ring.Remove(provider)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *KeyringService) ListApiKeys() ([]map[string]string, error) {
	providers, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(providers)

	results := make([]map[string]string, 0, len(providers))
	for _, provider := range providers {
		results = append(results, map[string]string{
			"provider":    provider,
			"label":       provider + " API key",
			"description": "API key for " + provider + " used by pricep",
		})
	}
	return results, nil
}
