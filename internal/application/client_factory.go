package application

import (
	"context"
	"fmt"

	"github.com/bnema/autumn-cli/internal/ports"
)

// ClientFactory builds a billing client per operation from the credential
// stored at that moment. Clients are never cached.
type ClientFactory struct {
	credentials *CredentialService
	build       ports.BillingClientFactory
}

func NewClientFactory(credentials *CredentialService, build ports.BillingClientFactory) *ClientFactory {
	return &ClientFactory{credentials: credentials, build: build}
}

// Client passes an absent credential through as an empty key; the remote
// API rejects it.
func (f *ClientFactory) Client(ctx context.Context) (ports.BillingClient, error) {
	secret, _, err := f.credentials.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("build billing client: %w", err)
	}

	return f.build(secret), nil
}
