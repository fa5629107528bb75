package ports

import "context"

// SecretStore persists opaque secrets by key. Get reports a missing key with
// an error matching domain.ErrSecretNotFound.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
