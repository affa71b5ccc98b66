package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketplace/storefront/internal/core/domain"
)

type suppliersResponse struct {
	Suppliers []domain.Supplier `json:"suppliers"`
	Count     int               `json:"count"`
}

type supplierResponse struct {
	Supplier domain.Supplier `json:"supplier"`
}

// ListSuppliers calls GET /suppliers.
func (c *Client) ListSuppliers(ctx context.Context, filter domain.SupplierFilter) ([]domain.Supplier, error) {
	var resp suppliersResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/suppliers",
		path:   "/suppliers",
		query: map[string]string{
			"code":   filter.Code,
			"name":   filter.Name,
			"status": filter.Status,
		},
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	if resp.Suppliers == nil {
		resp.Suppliers = []domain.Supplier{}
	}
	return resp.Suppliers, nil
}

// GetSupplier calls GET /suppliers/:code.
func (c *Client) GetSupplier(ctx context.Context, code string) (*domain.Supplier, error) {
	var resp supplierResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/suppliers/:code",
		path:   "/suppliers/" + url.PathEscape(code),
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get supplier %s: %w", code, err)
	}
	return &resp.Supplier, nil
}

// CreateSupplier calls POST /suppliers.
func (c *Client) CreateSupplier(ctx context.Context, supplier domain.NewSupplier) (*domain.Supplier, error) {
	var resp supplierResponse
	err := c.do(ctx, request{method: http.MethodPost, route: "/suppliers", path: "/suppliers", body: supplier, authed: true}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return &resp.Supplier, nil
}

// UpdateSupplier calls PATCH /suppliers/:code.
func (c *Client) UpdateSupplier(ctx context.Context, code string, update domain.SupplierUpdate) (*domain.Supplier, error) {
	var resp supplierResponse
	err := c.do(ctx, request{
		method: http.MethodPatch,
		route:  "/suppliers/:code",
		path:   "/suppliers/" + url.PathEscape(code),
		body:   update,
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("update supplier %s: %w", code, err)
	}
	return &resp.Supplier, nil
}

// DeleteSupplier calls DELETE /suppliers/:code.
func (c *Client) DeleteSupplier(ctx context.Context, code string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/suppliers/:code",
		path:   "/suppliers/" + url.PathEscape(code),
		authed: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete supplier %s: %w", code, err)
	}
	return nil
}

// SetSupplierStatus calls PATCH /suppliers/active/:code or
// PATCH /suppliers/inactive/:code.
func (c *Client) SetSupplierStatus(ctx context.Context, code, status string) (*domain.Supplier, error) {
	var resp supplierResponse
	err := c.do(ctx, request{
		method: http.MethodPatch,
		route:  "/suppliers/" + status + "/:code",
		path:   "/suppliers/" + url.PathEscape(status) + "/" + url.PathEscape(code),
		authed: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("set supplier %s %s: %w", code, status, err)
	}
	return &resp.Supplier, nil
}
