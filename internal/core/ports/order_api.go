package ports

import (
	"context"

	"github.com/marketplace/storefront/internal/core/domain"
)

// OrderAPI is the remote order endpoint set. The backend scopes listings to
// the caller unless the caller is an admin.
type OrderAPI interface {
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.NewOrder) (*domain.Order, error)
	UpdateOrder(ctx context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}
