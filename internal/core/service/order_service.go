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

// OrderService reads order history and lets admins move orders through
// their lifecycle. The backend scopes listings to the caller unless the
// caller is an admin.
type OrderService struct {
	api      ports.OrderAPI
	session  ports.IdentitySource
	validate *validator.Validate
	log      zerolog.Logger
}

func NewOrderService(api ports.OrderAPI, session ports.IdentitySource, log zerolog.Logger) *OrderService {
	return &OrderService{api: api, session: session, validate: validator.New(), log: log}
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	id := s.session.Identity()
	if id == nil {
		return nil, fmt.Errorf("list orders: %w", domain.ErrNotAuthenticated)
	}
	if filter.CustomerID != "" && !id.IsAdmin() && filter.CustomerID != id.Username {
		return nil, fmt.Errorf("list orders for %s: %w", filter.CustomerID, domain.ErrForbidden)
	}

	orders, err := s.api.ListOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	if s.session.Identity() == nil {
		return nil, fmt.Errorf("get order: %w", domain.ErrNotAuthenticated)
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("get order: id is required: %w", domain.ErrInvalidInput)
	}

	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

// UpdateStatus changes the order or payment status of an order. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error) {
	if err := requireAdmin(s.session, "update order"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" || update.Empty() {
		return nil, fmt.Errorf("update order: nothing to change: %w", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("update order: %w: %v", domain.ErrInvalidInput, err)
	}

	order, err := s.api.UpdateOrder(ctx, orderID, update)
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", orderID, err)
	}
	s.log.Info().
		Str("order_id", order.OrderID).
		Str("order_status", string(order.OrderStatus)).
		Str("payment_status", string(order.PaymentStatus)).
		Msg("order updated")
	return order, nil
}

// Delete removes an order. Admin only.
func (s *OrderService) Delete(ctx context.Context, orderID string) error {
	if err := requireAdmin(s.session, "delete order"); err != nil {
		return err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return fmt.Errorf("delete order: id is required: %w", domain.ErrInvalidInput)
	}
	if err := s.api.DeleteOrder(ctx, orderID); err != nil {
		return fmt.Errorf("delete order %s: %w", orderID, err)
	}
	s.log.Info().Str("order_id", orderID).Msg("order deleted")
	return nil
}
