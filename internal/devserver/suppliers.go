package devserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

var _ ports.SupplierService = (*Suppliers)(nil)

// Suppliers manages the vendors catalog entries belong to.
type Suppliers struct {
	store *Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewSuppliers(store *Store, log zerolog.Logger) *Suppliers {
	return &Suppliers{store: store, log: log, now: time.Now}
}

// List returns matching suppliers ordered by code. Name matches are
// case-insensitive substrings.
func (s *Suppliers) List(_ context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error) {
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	out := []domain.Supplier{}
	_ = s.store.read(func(st *state) error {
		for _, sup := range st.suppliers {
			if filter.Code != "" && sup.Code != filter.Code {
				continue
			}
			if name != "" && !strings.Contains(strings.ToLower(sup.Name), name) {
				continue
			}
			if filter.Status != "" && sup.Status != filter.Status {
				continue
			}
			out = append(out, sup)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Suppliers) Get(_ context.Context, code string) (*domain.Supplier, error) {
	var sup domain.Supplier
	err := s.store.read(func(st *state) error {
		found, ok := st.suppliers[code]
		if !ok {
			return fmt.Errorf("supplier %s: %w", code, domain.ErrNotFound)
		}
		sup = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *Suppliers) Create(_ context.Context, in domain.NewSupplier) (*domain.Supplier, error) {
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("code and name are required: %w", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = domain.StatusActive
	}
	if !validStatus(in.Status) {
		return nil, statusError()
	}

	now := s.now().UTC()
	sup := domain.Supplier{
		Code:      in.Code,
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.store.write(func(st *state) error {
		if _, exists := st.suppliers[sup.Code]; exists {
			return fmt.Errorf("supplier %s already exists: %w", sup.Code, domain.ErrConflict)
		}
		st.suppliers[sup.Code] = sup
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", sup.Code).Msg("supplier created")
	return &sup, nil
}

// Update changes a supplier's details. A new name is copied onto its
// products.
func (s *Suppliers) Update(_ context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error) {
	if update.Empty() {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrInvalidInput)
	}
	if update.Name != nil && *update.Name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", domain.ErrInvalidInput)
	}

	var updated domain.Supplier
	err := s.store.write(func(st *state) error {
		sup, ok := st.suppliers[code]
		if !ok {
			return fmt.Errorf("supplier %s: %w", code, domain.ErrNotFound)
		}
		if update.Name != nil {
			sup.Name = *update.Name
			for pc, p := range st.products {
				if p.SupplierID == code {
					p.SupplierName = sup.Name
					st.products[pc] = p
				}
			}
		}
		if update.Phone != nil {
			sup.Phone = *update.Phone
		}
		if update.Email != nil {
			sup.Email = *update.Email
		}
		if update.Address != nil {
			sup.Address = *update.Address
		}
		sup.UpdatedAt = s.now().UTC()
		st.suppliers[code] = sup
		updated = sup
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", code).Msg("supplier updated")
	return &updated, nil
}

// Delete removes a supplier. Only inactive suppliers without products can
// be removed.
func (s *Suppliers) Delete(_ context.Context, code string) error {
	err := s.store.write(func(st *state) error {
		sup, ok := st.suppliers[code]
		if !ok {
			return fmt.Errorf("supplier %s: %w", code, domain.ErrNotFound)
		}
		if sup.Active() {
			return fmt.Errorf("supplier %s is still active; deactivate it first: %w", code, domain.ErrConflict)
		}
		for _, p := range st.products {
			if p.SupplierID == code {
				return fmt.Errorf("supplier %s still has products: %w", code, domain.ErrConflict)
			}
		}
		delete(st.suppliers, code)
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("code", code).Msg("supplier deleted")
	return nil
}

// SetStatus activates or deactivates a supplier. Setting the current status
// again is not an error.
func (s *Suppliers) SetStatus(_ context.Context, code, status string) (*domain.Supplier, error) {
	if !validStatus(status) {
		return nil, statusError()
	}

	var updated domain.Supplier
	changed := false
	err := s.store.write(func(st *state) error {
		sup, ok := st.suppliers[code]
		if !ok {
			return fmt.Errorf("supplier %s: %w", code, domain.ErrNotFound)
		}
		if sup.Status != status {
			sup.Status = status
			sup.UpdatedAt = s.now().UTC()
			st.suppliers[code] = sup
			changed = true
		}
		updated = sup
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.Info().Str("code", code).Str("status", status).Msg("supplier status changed")
	}
	return &updated, nil
}
