// Package devserver is an in-memory implementation of the storefront REST
// backend. It exists so the client can be run and tested end to end without
// the production backend.
package devserver

import (
	"context"
	"errors"
	"sync"

	"github.com/marketplace/storefront/internal/core/domain"
)

// state is everything the backend knows. It is only touched through
// Store.read and Store.write.
type state struct {
	users     map[string]domain.User
	carts     map[string][]domain.LineItem
	products  map[string]domain.Product
	suppliers map[string]domain.Supplier
	orders    []domain.Order
}

// Store serializes access to the backend state. Each read or write callback
// runs under a single lock, so multi-step changes such as placing an order
// are atomic.
type Store struct {
	mu sync.RWMutex
	st state
}

func NewStore() *Store {
	return &Store{st: state{
		users:     make(map[string]domain.User),
		carts:     make(map[string][]domain.LineItem),
		products:  make(map[string]domain.Product),
		suppliers: make(map[string]domain.Supplier),
	}}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.st)
}

// PutProduct inserts or replaces a catalog entry.
func (s *Store) PutProduct(p domain.Product) {
	_ = s.write(func(st *state) error {
		st.products[p.Code] = p
		return nil
	})
}

// PutSupplier inserts or replaces a supplier.
func (s *Store) PutSupplier(sup domain.Supplier) {
	_ = s.write(func(st *state) error {
		st.suppliers[sup.Code] = sup
		return nil
	})
}

// CheckCatalog fails while the catalog is empty; nothing can be bought yet.
func (s *Store) CheckCatalog(context.Context) error {
	return s.read(func(st *state) error {
		if len(st.products) == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	})
}

func (st *state) findOrder(orderID string) (int, bool) {
	for i := range st.orders {
		if st.orders[i].OrderID == orderID {
			return i, true
		}
	}
	return -1, false
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}
