package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports"
)

// CredentialKey is the fixed secure-storage key of the billing API key.
const CredentialKey = "autumn_api_key"

// CredentialService owns the single stored API key.
type CredentialService struct {
	store ports.SecretStore
}

func NewCredentialService(store ports.SecretStore) *CredentialService {
	return &CredentialService{store: store}
}

// Save stores the trimmed secret. Blank input is rejected without touching
// the store.
func (s *CredentialService) Save(ctx context.Context, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return domain.ErrEmptyCredential
	}

	if err := s.store.Put(ctx, CredentialKey, secret); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	return nil
}

// Read reports found only for a stored, non-empty secret. A missing key is
// not an error.
func (s *CredentialService) Read(ctx context.Context) (string, bool, error) {
	secret, err := s.store.Get(ctx, CredentialKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read api key: %w", err)
	}

	return secret, secret != "", nil
}

func (s *CredentialService) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, CredentialKey); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("clear api key: %w", err)
	}

	return nil
}
