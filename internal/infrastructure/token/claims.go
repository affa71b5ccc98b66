package token

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/marketplace/storefront/internal/core/domain"
)

// Claims is the payload carried by storefront bearer tokens.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity converts the claims into a domain identity.
func (c *Claims) Identity() (domain.Identity, error) {
	id := domain.Identity{Username: c.Username, Role: domain.Role(c.Role)}
	if err := id.Validate(); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}
