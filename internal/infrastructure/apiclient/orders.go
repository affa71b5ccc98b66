package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketplace/storefront/internal/core/domain"
)

// ordersResponse covers both listing shapes: {orders, count}, or {message}
// when the caller has no orders.
type ordersResponse struct {
	Orders  []domain.Order `json:"orders"`
	Count   int            `json:"count"`
	Message string         `json:"message,omitempty"`
}

type orderResponse struct {
	Order domain.Order `json:"order"`
}

// ListOrders calls GET /orders.
func (c *Client) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var resp ordersResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/orders",
		path:   "/orders",
		query: map[string]string{
			"order_id":       filter.OrderID,
			"order_status":   string(filter.OrderStatus),
			"payment_status": string(filter.PaymentStatus),
			"customer_id":    filter.CustomerID,
		},
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if resp.Orders == nil {
		resp.Orders = []domain.Order{}
	}
	return resp.Orders, nil
}

// GetOrder calls GET /orders/:order_id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var resp orderResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/orders/:order_id",
		path:   "/orders/" + url.PathEscape(orderID),
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return &resp.Order, nil
}

// CreateOrder calls PUT /orders.
func (c *Client) CreateOrder(ctx context.Context, order domain.NewOrder) (*domain.Order, error) {
	var resp orderResponse
	err := c.do(ctx, request{method: http.MethodPut, route: "/orders", path: "/orders", body: order, authed: true}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &resp.Order, nil
}

// UpdateOrder calls PATCH /orders/:order_id.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error) {
	var resp orderResponse
	err := c.do(ctx, request{
		method: http.MethodPatch,
		route:  "/orders/:order_id",
		path:   "/orders/" + url.PathEscape(orderID),
		body:   update,
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", orderID, err)
	}
	return &resp.Order, nil
}

// DeleteOrder calls DELETE /orders/:order_id.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/orders/:order_id",
		path:   "/orders/" + url.PathEscape(orderID),
		authed: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", orderID, err)
	}
	return nil
}
