package ports

import (
	"context"

	"github.com/marketplace/storefront/internal/core/domain"
)

// The interfaces below are the server side of the REST contract. The client
// never uses them; they back the development server's HTTP handlers.

// AccountService registers users and exchanges credentials for tokens.
type AccountService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// CartService owns every user's cart. Totals are computed here.
type CartService interface {
	Get(ctx context.Context, username string) (domain.Cart, error)
	Add(ctx context.Context, username string, item domain.LineItem) error
	// SetQuantity removes the line when quantity is 0.
	SetQuantity(ctx context.Context, username, productID string, quantity int) error
	Remove(ctx context.Context, username, productID string) error
	Clear(ctx context.Context, username string) error
}

// ProductService serves the catalog. Create, Update and Delete are admin
// operations; the router enforces the role.
type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, code string) (*domain.Product, error)
	Create(ctx context.Context, product domain.NewProduct) (*domain.Product, error)
	Update(ctx context.Context, code string, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, code string) error
}

// SupplierService manages the vendors products belong to. Everything but
// List and Get is an admin operation.
type SupplierService interface {
	List(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error)
	Get(ctx context.Context, code string) (*domain.Supplier, error)
	Create(ctx context.Context, supplier domain.NewSupplier) (*domain.Supplier, error)
	Update(ctx context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error)
	// Delete refuses suppliers that are still active or still have products.
	Delete(ctx context.Context, code string) error
	SetStatus(ctx context.Context, code, status string) (*domain.Supplier, error)
}

// OrderService places and tracks orders. Callers scope listings to the
// requesting user; admins see everything.
type OrderService interface {
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	Create(ctx context.Context, customerID string, order domain.NewOrder) (*domain.Order, error)
	Update(ctx context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error)
	Delete(ctx context.Context, orderID string) error
}
