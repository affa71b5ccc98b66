package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketplace/storefront/internal/core/domain"
)

type cartResponse struct {
	Cart domain.Cart `json:"cart"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart calls GET /cart.
func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	var resp cartResponse
	err := c.do(ctx, request{method: http.MethodGet, route: "/cart", path: "/cart", authed: true}, &resp)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	return resp.Cart, nil
}

// AddItem calls PUT /cart.
func (c *Client) AddItem(ctx context.Context, item domain.LineItem) error {
	err := c.do(ctx, request{method: http.MethodPut, route: "/cart", path: "/cart", body: item, authed: true}, nil)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// UpdateItem calls PATCH /cart/:product_id.
func (c *Client) UpdateItem(ctx context.Context, productID string, quantity int) error {
	err := c.do(ctx, request{
		method: http.MethodPatch,
		route:  "/cart/:product_id",
		path:   "/cart/" + url.PathEscape(productID),
		body:   quantityRequest{Quantity: quantity},
		authed: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("update cart item %s: %w", productID, err)
	}
	return nil
}

// RemoveItem calls DELETE /cart/:product_id.
func (c *Client) RemoveItem(ctx context.Context, productID string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/cart/:product_id",
		path:   "/cart/" + url.PathEscape(productID),
		authed: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("remove cart item %s: %w", productID, err)
	}
	return nil
}

// ClearCart calls DELETE /cart.
func (c *Client) ClearCart(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodDelete, route: "/cart", path: "/cart", authed: true}, nil)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
