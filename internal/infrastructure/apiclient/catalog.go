package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketplace/storefront/internal/core/domain"
)

type productsResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

type productResponse struct {
	Product domain.Product `json:"product"`
}

// ListProducts calls GET /products.
func (c *Client) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var resp productsResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/products",
		path:   "/products",
		query: map[string]string{
			"name":        filter.Name,
			"category":    filter.Category,
			"supplier_id": filter.SupplierID,
			"status":      filter.Status,
		},
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if resp.Products == nil {
		resp.Products = []domain.Product{}
	}
	return resp.Products, nil
}

// GetProduct calls GET /products/:code.
func (c *Client) GetProduct(ctx context.Context, code string) (*domain.Product, error) {
	var resp productResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/products/:code",
		path:   "/products/" + url.PathEscape(code),
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", code, err)
	}
	return &resp.Product, nil
}

// CreateProduct calls PUT /products.
func (c *Client) CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error) {
	var resp productResponse
	err := c.do(ctx, request{method: http.MethodPut, route: "/products", path: "/products", body: product, authed: true}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &resp.Product, nil
}

// UpdateProduct calls PATCH /products/:code.
func (c *Client) UpdateProduct(ctx context.Context, code string, update domain.ProductUpdate) (*domain.Product, error) {
	var resp productResponse
	err := c.do(ctx, request{
		method: http.MethodPatch,
		route:  "/products/:code",
		path:   "/products/" + url.PathEscape(code),
		body:   update,
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", code, err)
	}
	return &resp.Product, nil
}

// DeleteProduct calls DELETE /products/:code.
func (c *Client) DeleteProduct(ctx context.Context, code string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/products/:code",
		path:   "/products/" + url.PathEscape(code),
		authed: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", code, err)
	}
	return nil
}
