package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
	"github.com/marketplace/storefront/internal/metrics"
)

const defaultStockCheckConcurrency = 4

// CheckoutCart is the part of the cart synchronizer checkout depends on.
type CheckoutCart interface {
	Refresh(ctx context.Context) error
	Cart() domain.Cart
	Clear(ctx context.Context) error
}

// CheckoutInput is what the shopper supplies at checkout.
type CheckoutInput struct {
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string `validate:"omitempty,oneof=cod card"`
	Note            string `validate:"max=500"`
}

// CheckoutService turns the current cart into an order.
type CheckoutService struct {
	cart     CheckoutCart
	catalog  ports.CatalogAPI
	orders   ports.OrderAPI
	session  ports.IdentitySource
	validate *validator.Validate
	log      zerolog.Logger

	concurrency int
}

func NewCheckoutService(cart CheckoutCart, catalog ports.CatalogAPI, orders ports.OrderAPI, session ports.IdentitySource, log zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		cart:        cart,
		catalog:     catalog,
		orders:      orders,
		session:     session,
		validate:    validator.New(),
		log:         log,
		concurrency: defaultStockCheckConcurrency,
	}
}

// Checkout places an order for everything in the cart and then clears it.
// Once the backend has accepted the order it is always returned, even when
// clearing the cart afterwards fails.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	id := s.session.Identity()
	if id == nil {
		return nil, fmt.Errorf("checkout: %w", domain.ErrNotAuthenticated)
	}
	if id.Role != domain.RoleUser {
		return nil, fmt.Errorf("checkout: only shoppers can place orders: %w", domain.ErrForbidden)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("checkout: %w: %v", domain.ErrInvalidInput, err)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentCOD
	}

	if err := s.cart.Refresh(ctx); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("checkout: %w", err)
	}
	cart := s.cart.Cart()
	if cart.IsEmpty() {
		metrics.CheckoutsTotal.WithLabelValues("empty_cart").Inc()
		return nil, fmt.Errorf("checkout: %w", domain.ErrEmptyCart)
	}

	if err := s.checkStock(ctx, cart.Items); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("out_of_stock").Inc()
		return nil, fmt.Errorf("checkout: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	order, err := s.orders.CreateOrder(ctx, domain.NewOrder{
		Items:           items,
		TotalAmount:     cart.TotalPrice,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Note:            in.Note,
	})
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("checkout: place order: %w", err)
	}
	metrics.CheckoutsTotal.WithLabelValues("placed").Inc()
	s.log.Info().Str("order_id", order.OrderID).Float64("price", order.Price).Msg("order placed")

	if err := s.cart.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("order placed but cart could not be cleared")
		if rerr := s.cart.Refresh(ctx); rerr != nil {
			s.log.Warn().Err(rerr).Msg("cart refresh after checkout failed")
		}
	}
	return order, nil
}

// checkStock looks every line up in the catalog and fails on the first one
// the backend cannot fill.
func (s *CheckoutService) checkStock(ctx context.Context, items []domain.LineItem) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, it := range items {
		it := it
		g.Go(func() error {
			p, err := s.catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("look up %s: %w", it.ProductID, err)
			}
			if !p.InStock(it.Quantity) {
				return fmt.Errorf("%s: %d requested, %d available: %w", p.Name, it.Quantity, p.TotalQuantity, domain.ErrInsufficientStock)
			}
			return nil
		})
	}
	return g.Wait()
}
