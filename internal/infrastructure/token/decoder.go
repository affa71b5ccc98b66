package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

// Decoder reads claims out of a token without checking its signature. The
// client has no key; the backend decides whether a token is still good.
type Decoder struct {
	parser *jwt.Parser
}

var _ ports.CredentialDecoder = (*Decoder)(nil)

func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

func (d *Decoder) Decode(raw string) (domain.Identity, error) {
	claims := &Claims{}
	if _, _, err := d.parser.ParseUnverified(raw, claims); err != nil {
		return domain.Identity{}, fmt.Errorf("decode token: %w: %v", domain.ErrMalformedCredential, err)
	}
	return claims.Identity()
}
