package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) when a provider has no value for a
// credential name.
var ErrNotFound = errors.New("secret not found")

// SecretProvider retrieves credentials from a backend.
//
// Names are the credential names the chat adapters ask for, such as
// "OPENAI_API_KEY". Each provider maps them onto its own storage layout.
type SecretProvider interface {
	// GetSecret retrieves a secret by name.
	GetSecret(ctx context.Context, name string) (string, error)

	// ListSecrets returns all secret names available from this provider.
	// Values are never included.
	ListSecrets(ctx context.Context) ([]string, error)

	// Provider returns the provider name ("env", "file").
	Provider() string

	// Supports indicates if this provider may hold the given secret name.
	Supports(name string) bool
}

// RefreshableProvider can drop cached values so rotated credentials are
// picked up without a restart.
type RefreshableProvider interface {
	SecretProvider

	Refresh(ctx context.Context) error
}
