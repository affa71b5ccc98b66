package devserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

var _ ports.ProductService = (*Catalog)(nil)

type Catalog struct {
	store *Store
	log   zerolog.Logger
}

func NewCatalog(store *Store, log zerolog.Logger) *Catalog {
	return &Catalog{store: store, log: log}
}

// List returns products matching filter, ordered by code. Name matches are
// case-insensitive substrings; the other fields must match exactly.
func (c *Catalog) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	out := []domain.Product{}
	_ = c.store.read(func(st *state) error {
		for _, p := range st.products {
			if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
				continue
			}
			if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
				continue
			}
			if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
				continue
			}
			if filter.Status != "" && p.Status != filter.Status {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (c *Catalog) Get(_ context.Context, code string) (*domain.Product, error) {
	var p domain.Product
	err := c.store.read(func(st *state) error {
		found, ok := st.products[code]
		if !ok {
			return fmt.Errorf("product %s: %w", code, domain.ErrNotFound)
		}
		p = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create adds a catalog entry. The code must be new and the supplier must
// exist; supplier_name is copied from the supplier.
func (c *Catalog) Create(_ context.Context, in domain.NewProduct) (*domain.Product, error) {
	if in.Code == "" || in.Name == "" || in.SupplierID == "" {
		return nil, fmt.Errorf("code, name and supplier_id are required: %w", domain.ErrInvalidInput)
	}
	if in.SellPrice < 0 || in.TotalQuantity < 0 {
		return nil, fmt.Errorf("sell_price and total_quantity must not be negative: %w", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = domain.StatusActive
	}
	if !validStatus(in.Status) {
		return nil, statusError()
	}

	p := domain.Product{
		Code:          in.Code,
		Name:          in.Name,
		Category:      in.Category,
		SupplierID:    in.SupplierID,
		SellPrice:     in.SellPrice,
		TotalQuantity: in.TotalQuantity,
		Status:        in.Status,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
	}
	err := c.store.write(func(st *state) error {
		if _, exists := st.products[p.Code]; exists {
			return fmt.Errorf("product %s already exists: %w", p.Code, domain.ErrConflict)
		}
		sup, ok := st.suppliers[p.SupplierID]
		if !ok {
			return fmt.Errorf("supplier %s does not exist: %w", p.SupplierID, domain.ErrInvalidInput)
		}
		p.SupplierName = sup.Name
		st.products[p.Code] = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("code", p.Code).Str("supplier_id", p.SupplierID).Msg("product created")
	return &p, nil
}

// Update changes a catalog entry. Lines already in carts pick up the new
// name and price.
func (c *Catalog) Update(_ context.Context, code string, update domain.ProductUpdate) (*domain.Product, error) {
	if update.Empty() {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrInvalidInput)
	}
	if (update.SellPrice != nil && *update.SellPrice < 0) || (update.TotalQuantity != nil && *update.TotalQuantity < 0) {
		return nil, fmt.Errorf("sell_price and total_quantity must not be negative: %w", domain.ErrInvalidInput)
	}
	if update.Status != nil && !validStatus(*update.Status) {
		return nil, statusError()
	}

	var updated domain.Product
	err := c.store.write(func(st *state) error {
		p, ok := st.products[code]
		if !ok {
			return fmt.Errorf("product %s: %w", code, domain.ErrNotFound)
		}
		next := update.Apply(p)
		if update.SupplierID != nil {
			sup, ok := st.suppliers[next.SupplierID]
			if !ok {
				return fmt.Errorf("supplier %s does not exist: %w", next.SupplierID, domain.ErrInvalidInput)
			}
			next.SupplierName = sup.Name
		}
		st.products[code] = next
		for user, items := range st.carts {
			if idx := lineIndex(items, code); idx >= 0 {
				items[idx] = next.ToLineItem(items[idx].Quantity)
				st.carts[user] = items
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().Str("code", code).Msg("product updated")
	return &updated, nil
}

// Delete removes a catalog entry and drops it from every cart. Placed
// orders keep their copy of the line.
func (c *Catalog) Delete(_ context.Context, code string) error {
	err := c.store.write(func(st *state) error {
		if _, ok := st.products[code]; !ok {
			return fmt.Errorf("product %s: %w", code, domain.ErrNotFound)
		}
		delete(st.products, code)
		for user, items := range st.carts {
			if idx := lineIndex(items, code); idx >= 0 {
				st.carts[user] = append(items[:idx], items[idx+1:]...)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.log.Info().Str("code", code).Msg("product deleted")
	return nil
}

func validStatus(s string) bool {
	return s == domain.StatusActive || s == domain.StatusInactive
}

func statusError() error {
	return fmt.Errorf("status must be one of active, inactive: %w", domain.ErrInvalidInput)
}
