package ports

import (
	"context"

	"github.com/marketplace/storefront/internal/core/domain"
)

// CartAPI is the remote cart endpoint set. The backend owns merge and total
// semantics; callers must re-fetch after every mutation.
type CartAPI interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	AddItem(ctx context.Context, item domain.LineItem) error
	UpdateItem(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
}
