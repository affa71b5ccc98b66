package devserver

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

var _ ports.CartService = (*Carts)(nil)

// Carts keeps one cart per username. Line prices always come from the
// catalog, never from the request.
type Carts struct {
	store *Store
	log   zerolog.Logger
}

func NewCarts(store *Store, log zerolog.Logger) *Carts {
	return &Carts{store: store, log: log}
}

// Get returns the cart with backend-computed totals. A user with no cart
// gets an empty one.
func (c *Carts) Get(_ context.Context, username string) (domain.Cart, error) {
	var cart domain.Cart
	_ = c.store.read(func(st *state) error {
		cart = buildCart(st.carts[username])
		return nil
	})
	return cart, nil
}

// Add puts item in the cart, merging with an existing line for the same
// product. The merged quantity must be in stock.
func (c *Carts) Add(_ context.Context, username string, item domain.LineItem) error {
	if item.ProductID == "" || item.Quantity < 1 {
		return fmt.Errorf("product_id and a positive quantity are required: %w", domain.ErrInvalidInput)
	}

	return c.store.write(func(st *state) error {
		p, ok := st.products[item.ProductID]
		if !ok {
			return fmt.Errorf("product %s: %w", item.ProductID, domain.ErrNotFound)
		}

		items := st.carts[username]
		idx := lineIndex(items, item.ProductID)
		want := item.Quantity
		if idx >= 0 {
			want += items[idx].Quantity
		}
		if !p.InStock(want) {
			return stockError(p)
		}

		line := p.ToLineItem(want)
		if idx >= 0 {
			items[idx] = line
		} else {
			items = append(items, line)
		}
		st.carts[username] = items
		return nil
	})
}

// SetQuantity replaces a line's quantity; 0 removes the line.
func (c *Carts) SetQuantity(_ context.Context, username, productID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative: %w", domain.ErrInvalidInput)
	}

	return c.store.write(func(st *state) error {
		items := st.carts[username]
		idx := lineIndex(items, productID)
		if idx < 0 {
			return fmt.Errorf("product %s is not in the cart: %w", productID, domain.ErrNotFound)
		}
		if quantity == 0 {
			st.carts[username] = append(items[:idx], items[idx+1:]...)
			return nil
		}

		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		if !p.InStock(quantity) {
			return stockError(p)
		}
		items[idx] = p.ToLineItem(quantity)
		return nil
	})
}

func (c *Carts) Remove(_ context.Context, username, productID string) error {
	return c.store.write(func(st *state) error {
		items := st.carts[username]
		idx := lineIndex(items, productID)
		if idx < 0 {
			return fmt.Errorf("product %s is not in the cart: %w", productID, domain.ErrNotFound)
		}
		st.carts[username] = append(items[:idx], items[idx+1:]...)
		return nil
	})
}

func (c *Carts) Clear(_ context.Context, username string) error {
	return c.store.write(func(st *state) error {
		delete(st.carts, username)
		return nil
	})
}

func buildCart(items []domain.LineItem) domain.Cart {
	cart := domain.Cart{Items: make([]domain.LineItem, len(items))}
	copy(cart.Items, items)
	var total float64
	for _, it := range items {
		cart.TotalItems += it.Quantity
		total += it.Price * float64(it.Quantity)
	}
	cart.TotalPrice = roundCents(total)
	return cart
}

func lineIndex(items []domain.LineItem, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func stockError(p domain.Product) error {
	if p.TotalQuantity <= 0 {
		return fmt.Errorf("%s is out of stock: %w", p.Name, domain.ErrInsufficientStock)
	}
	return fmt.Errorf("%s: only %d left: %w", p.Name, p.TotalQuantity, domain.ErrInsufficientStock)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
