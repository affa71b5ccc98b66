package ports

import (
	"context"

	"github.com/marketplace/storefront/internal/core/domain"
)

// IdentityChange is emitted after every session transition.
type IdentityChange struct {
	Previous *domain.Identity
	Current  *domain.Identity
}

// IdentityListener reacts to a session transition. It runs on the caller's
// goroutine after the transition is durable and visible.
type IdentityListener func(ctx context.Context, change IdentityChange)

// IdentitySource is the read side of the session used by dependent services.
type IdentitySource interface {
	Identity() *domain.Identity
	Subscribe(listener IdentityListener) (unsubscribe func())
}

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() string
}
