package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

// CatalogService browses products, which needs no identity, and lets admins
// maintain the catalog.
type CatalogService struct {
	api      ports.CatalogAPI
	session  ports.IdentitySource
	validate *validator.Validate
	log      zerolog.Logger
}

func NewCatalogService(api ports.CatalogAPI, session ports.IdentitySource, log zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, session: session, validate: validator.New(), log: log}
}

func (s *CatalogService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	products, err := s.api.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	s.log.Debug().Int("count", len(products)).Msg("products listed")
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, code string) (*domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("get product: code is required: %w", domain.ErrInvalidInput)
	}
	p, err := s.api.GetProduct(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", code, err)
	}
	return p, nil
}

// Create adds a catalog entry. Admin only.
func (s *CatalogService) Create(ctx context.Context, in domain.NewProduct) (*domain.Product, error) {
	if err := requireAdmin(s.session, "create product"); err != nil {
		return nil, err
	}
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("create product: %w: %v", domain.ErrInvalidInput, err)
	}

	p, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create product %s: %w", in.Code, err)
	}
	s.log.Info().Str("code", p.Code).Str("supplier_id", p.SupplierID).Msg("product created")
	return p, nil
}

// Update changes the non-nil fields of a catalog entry. Admin only.
func (s *CatalogService) Update(ctx context.Context, code string, update domain.ProductUpdate) (*domain.Product, error) {
	if err := requireAdmin(s.session, "update product"); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" || update.Empty() {
		return nil, fmt.Errorf("update product: nothing to change: %w", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("update product: %w: %v", domain.ErrInvalidInput, err)
	}

	p, err := s.api.UpdateProduct(ctx, code, update)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", code, err)
	}
	s.log.Info().Str("code", code).Msg("product updated")
	return p, nil
}

// Delete removes a catalog entry. Admin only.
func (s *CatalogService) Delete(ctx context.Context, code string) error {
	if err := requireAdmin(s.session, "delete product"); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("delete product: code is required: %w", domain.ErrInvalidInput)
	}
	if err := s.api.DeleteProduct(ctx, code); err != nil {
		return fmt.Errorf("delete product %s: %w", code, err)
	}
	s.log.Info().Str("code", code).Msg("product deleted")
	return nil
}
