// Package secrets keeps fitcoach credentials in the OS keyring.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "fitcoach"

const signingEntry = "media-signing"

// SigningSecret returns the media URL signing secret, creating and storing a
// random one on first use.
func SigningSecret() ([]byte, error) {
	enc, err := keyring.Get(serviceName, signingEntry)
	if err == nil {
		raw, decErr := base64.StdEncoding.DecodeString(enc)
		if decErr != nil {
			return nil, fmt.Errorf("decode signing secret: %w", decErr)
		}
		return raw, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("read signing secret: %w", err)
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	if err := keyring.Set(serviceName, signingEntry, base64.StdEncoding.EncodeToString(raw)); err != nil {
		return nil, fmt.Errorf("store signing secret: %w", err)
	}
	return raw, nil
}

// StoreProviderKey saves an API key for a transcription provider.
func StoreProviderKey(provider, key string) error {
	if provider = norm(provider); provider == "" {
		return fmt.Errorf("provider required")
	}
	return keyring.Set(serviceName, "provider:"+provider, strings.TrimSpace(key))
}

// FetchProviderKey reads an API key saved with StoreProviderKey.
func FetchProviderKey(provider string) (string, error) {
	if provider = norm(provider); provider == "" {
		return "", fmt.Errorf("provider required")
	}
	return keyring.Get(serviceName, "provider:"+provider)
}

// DeleteProviderKey removes a saved API key.
func DeleteProviderKey(provider string) error {
	if provider = norm(provider); provider == "" {
		return fmt.Errorf("provider required")
	}
	return keyring.Delete(serviceName, "provider:"+provider)
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
