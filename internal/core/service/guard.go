package service

import (
	"fmt"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

// requireAdmin fails unless the session holds an admin identity. The
// backend enforces the same rule; checking here saves the round trip.
func requireAdmin(session ports.IdentitySource, op string) error {
	id := session.Identity()
	if id == nil {
		return fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	if !id.IsAdmin() {
		return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
	}
	return nil
}
