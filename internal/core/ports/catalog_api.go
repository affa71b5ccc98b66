package ports

import (
	"context"

	"github.com/marketplace/storefront/internal/core/domain"
)

// CatalogAPI is the remote product endpoint set. The write calls need an
// admin credential.
type CatalogAPI interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, code string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, code string, update domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, code string) error
}

// SupplierAPI is the remote supplier endpoint set. Everything but the reads
// needs an admin credential.
type SupplierAPI interface {
	ListSuppliers(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, code string) (*domain.Supplier, error)
	CreateSupplier(ctx context.Context, supplier domain.NewSupplier) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, code string) error
	SetSupplierStatus(ctx context.Context, code, status string) (*domain.Supplier, error)
}
