package devserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
	"github.com/marketplace/storefront/internal/metrics"
)

var _ ports.OrderService = (*Orders)(nil)

// Orders places orders against the catalog and tracks their status.
type Orders struct {
	store *Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewOrders(store *Store, log zerolog.Logger) *Orders {
	return &Orders{store: store, log: log, now: time.Now}
}

// List returns matching orders, newest first.
func (o *Orders) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	out := []domain.Order{}
	_ = o.store.read(func(st *state) error {
		for _, ord := range st.orders {
			if matchesOrder(ord, filter) {
				out = append(out, cloneOrder(ord))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (o *Orders) Get(_ context.Context, orderID string) (*domain.Order, error) {
	var ord domain.Order
	err := o.store.read(func(st *state) error {
		idx, ok := st.findOrder(orderID)
		if !ok {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		ord = cloneOrder(st.orders[idx])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

// Create places an order for customerID. Items are repriced from the
// catalog, every line must be in stock, and stock is decremented in the same
// step so concurrent orders cannot oversell.
func (o *Orders) Create(_ context.Context, customerID string, in domain.NewOrder) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item: %w", domain.ErrInvalidInput)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentCOD
	}

	now := o.now().UTC()
	order := domain.Order{
		OrderID:         newOrderID(now),
		CustomerID:      customerID,
		Items:           make([]domain.OrderItem, 0, len(in.Items)),
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   domain.PaymentPending,
		OrderStatus:     domain.OrderProcessing,
		Note:            in.Note,
		CreatedAt:       now,
	}

	err := o.store.write(func(st *state) error {
		requested := make(map[string]int, len(in.Items))
		var total float64
		for _, it := range in.Items {
			if it.Quantity < 1 {
				return fmt.Errorf("quantity for %s must be positive: %w", it.ProductID, domain.ErrInvalidInput)
			}
			p, ok := st.products[it.ProductID]
			if !ok {
				return fmt.Errorf("product %s does not exist: %w", it.ProductID, domain.ErrInvalidInput)
			}
			requested[p.Code] += it.Quantity
			if !p.InStock(requested[p.Code]) {
				return stockError(p)
			}
			order.Items = append(order.Items, domain.OrderItem{
				ProductID: p.Code,
				Name:      p.Name,
				Price:     p.SellPrice,
				Quantity:  it.Quantity,
			})
			total += p.SellPrice * float64(it.Quantity)
		}
		order.Price = roundCents(total)

		for code, qty := range requested {
			p := st.products[code]
			p.TotalQuantity -= qty
			st.products[code] = p
		}
		st.orders = append(st.orders, order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DevOrdersCreatedTotal.WithLabelValues(order.PaymentMethod).Inc()
	o.log.Info().
		Str("order_id", order.OrderID).
		Str("customer_id", customerID).
		Float64("price", order.Price).
		Msg("order created")

	created := cloneOrder(order)
	return &created, nil
}

// Update applies an admin status change.
func (o *Orders) Update(_ context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error) {
	if update.Empty() {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrInvalidInput)
	}
	if update.OrderStatus != nil && !update.OrderStatus.Valid() {
		return nil, fmt.Errorf("order_status must be one of processing, success, cancelled: %w", domain.ErrInvalidInput)
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.Valid() {
		return nil, fmt.Errorf("payment_status must be one of pending, completed: %w", domain.ErrInvalidInput)
	}

	var updated domain.Order
	err := o.store.write(func(st *state) error {
		idx, ok := st.findOrder(orderID)
		if !ok {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		if update.OrderStatus != nil {
			st.orders[idx].OrderStatus = *update.OrderStatus
		}
		if update.PaymentStatus != nil {
			st.orders[idx].PaymentStatus = *update.PaymentStatus
		}
		updated = cloneOrder(st.orders[idx])
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.log.Info().
		Str("order_id", orderID).
		Str("order_status", string(updated.OrderStatus)).
		Str("payment_status", string(updated.PaymentStatus)).
		Msg("order updated")
	return &updated, nil
}

// Delete removes an order. Stock it reserved is not returned.
func (o *Orders) Delete(_ context.Context, orderID string) error {
	err := o.store.write(func(st *state) error {
		idx, ok := st.findOrder(orderID)
		if !ok {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		st.orders = append(st.orders[:idx], st.orders[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	o.log.Info().Str("order_id", orderID).Msg("order deleted")
	return nil
}

func matchesOrder(o domain.Order, f domain.OrderFilter) bool {
	switch {
	case f.OrderID != "" && o.OrderID != f.OrderID:
		return false
	case f.OrderStatus != "" && o.OrderStatus != f.OrderStatus:
		return false
	case f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus:
		return false
	case f.CustomerID != "" && o.CustomerID != f.CustomerID:
		return false
	}
	return true
}

// newOrderID formats ORD-<yyyymmddHHMMSS>-<6 upper-case hex>.
func newOrderID(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102150405"), suffix)
}
