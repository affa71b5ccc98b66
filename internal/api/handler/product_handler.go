package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type productListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

type productResponse struct {
	Product *domain.Product `json:"product"`
}

// List returns the catalog, narrowed by the name, category, supplier_id and
// status query parameters.
func (h *ProductHandler) List(c echo.Context) error {
	filter := domain.ProductFilter{
		Name:       c.QueryParam("name"),
		Category:   c.QueryParam("category"),
		SupplierID: c.QueryParam("supplier_id"),
		Status:     c.QueryParam("status"),
	}
	products, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Products: products, Count: len(products)})
}

func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.products.Get(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: p})
}

// Create adds a catalog entry. Admin only.
func (h *ProductHandler) Create(c echo.Context) error {
	var req domain.NewProduct
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.products.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Product: p})
}

// Update changes the fields present in the body. Admin only.
func (h *ProductHandler) Update(c echo.Context) error {
	var req domain.ProductUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.products.Update(c.Request().Context(), c.Param("code"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: p})
}

// Delete removes a catalog entry. Admin only.
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("code")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "product deleted"})
}
