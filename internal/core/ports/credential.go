package ports

import (
	"context"

	"github.com/marketplace/storefront/internal/core/domain"
)

// CredentialStore is durable client storage for the session. Save and Clear
// must write or remove both keys together.
type CredentialStore interface {
	// Load returns an empty record, not an error, when nothing is stored.
	Load(ctx context.Context) (domain.PersistedCredential, error)
	Save(ctx context.Context, cred domain.PersistedCredential) error
	Clear(ctx context.Context) error
}

// CredentialDecoder extracts claims from a bearer token without verifying
// its signature; the backend remains the authority on validity.
type CredentialDecoder interface {
	Decode(token string) (domain.Identity, error)
}
