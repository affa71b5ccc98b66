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

// SupplierService lists suppliers for anyone and lets admins manage them.
type SupplierService struct {
	api      ports.SupplierAPI
	session  ports.IdentitySource
	validate *validator.Validate
	log      zerolog.Logger
}

func NewSupplierService(api ports.SupplierAPI, session ports.IdentitySource, log zerolog.Logger) *SupplierService {
	return &SupplierService{api: api, session: session, validate: validator.New(), log: log}
}

func (s *SupplierService) List(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error) {
	if filter.Status != "" && filter.Status != domain.StatusActive && filter.Status != domain.StatusInactive {
		return nil, fmt.Errorf("list suppliers: unknown status %q: %w", filter.Status, domain.ErrInvalidInput)
	}
	filter.Name = strings.TrimSpace(filter.Name)
	suppliers, err := s.api.ListSuppliers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *SupplierService) Get(ctx context.Context, code string) (*domain.Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("get supplier: code is required: %w", domain.ErrInvalidInput)
	}
	sup, err := s.api.GetSupplier(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get supplier %s: %w", code, err)
	}
	return sup, nil
}

// Create registers a supplier. Admin only.
func (s *SupplierService) Create(ctx context.Context, in domain.NewSupplier) (*domain.Supplier, error) {
	if err := requireAdmin(s.session, "create supplier"); err != nil {
		return nil, err
	}
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("create supplier: %w: %v", domain.ErrInvalidInput, err)
	}

	sup, err := s.api.CreateSupplier(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create supplier %s: %w", in.Code, err)
	}
	s.log.Info().Str("code", sup.Code).Msg("supplier created")
	return sup, nil
}

// Update changes a supplier's contact details. Admin only.
func (s *SupplierService) Update(ctx context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error) {
	if err := requireAdmin(s.session, "update supplier"); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" || update.Empty() {
		return nil, fmt.Errorf("update supplier: nothing to change: %w", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("update supplier: %w: %v", domain.ErrInvalidInput, err)
	}

	sup, err := s.api.UpdateSupplier(ctx, code, update)
	if err != nil {
		return nil, fmt.Errorf("update supplier %s: %w", code, err)
	}
	return sup, nil
}

// Delete removes a supplier. The backend refuses active suppliers and
// suppliers that still have products. Admin only.
func (s *SupplierService) Delete(ctx context.Context, code string) error {
	if err := requireAdmin(s.session, "delete supplier"); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("delete supplier: code is required: %w", domain.ErrInvalidInput)
	}
	if err := s.api.DeleteSupplier(ctx, code); err != nil {
		return fmt.Errorf("delete supplier %s: %w", code, err)
	}
	s.log.Info().Str("code", code).Msg("supplier deleted")
	return nil
}

// Activate puts a supplier back into trading. Admin only.
func (s *SupplierService) Activate(ctx context.Context, code string) (*domain.Supplier, error) {
	return s.setStatus(ctx, code, domain.StatusActive)
}

// Deactivate stops trading with a supplier. Admin only.
func (s *SupplierService) Deactivate(ctx context.Context, code string) (*domain.Supplier, error) {
	return s.setStatus(ctx, code, domain.StatusInactive)
}

func (s *SupplierService) setStatus(ctx context.Context, code, status string) (*domain.Supplier, error) {
	op := "set supplier " + status
	if err := requireAdmin(s.session, op); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%s: code is required: %w", op, domain.ErrInvalidInput)
	}

	sup, err := s.api.SetSupplierStatus(ctx, code, status)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, code, err)
	}
	s.log.Info().Str("code", code).Str("status", sup.Status).Msg("supplier status changed")
	return sup, nil
}
