package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

type SupplierHandler struct {
	suppliers ports.SupplierService
}

func NewSupplierHandler(suppliers ports.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

type supplierListResponse struct {
	Suppliers []domain.Supplier `json:"suppliers"`
	Count     int               `json:"count"`
}

type supplierResponse struct {
	Supplier *domain.Supplier `json:"supplier"`
}

// List returns suppliers narrowed by the code, name and status query
// parameters.
func (h *SupplierHandler) List(c echo.Context) error {
	filter := domain.SupplierFilter{
		Code:   c.QueryParam("code"),
		Name:   c.QueryParam("name"),
		Status: c.QueryParam("status"),
	}
	suppliers, err := h.suppliers.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, supplierListResponse{Suppliers: suppliers, Count: len(suppliers)})
}

func (h *SupplierHandler) Get(c echo.Context) error {
	sup, err := h.suppliers.Get(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, supplierResponse{Supplier: sup})
}

func (h *SupplierHandler) Create(c echo.Context) error {
	var req domain.NewSupplier
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sup, err := h.suppliers.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, supplierResponse{Supplier: sup})
}

func (h *SupplierHandler) Update(c echo.Context) error {
	var req domain.SupplierUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sup, err := h.suppliers.Update(c.Request().Context(), c.Param("code"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, supplierResponse{Supplier: sup})
}

func (h *SupplierHandler) Delete(c echo.Context) error {
	if err := h.suppliers.Delete(c.Request().Context(), c.Param("code")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "supplier deleted"})
}

func (h *SupplierHandler) Activate(c echo.Context) error {
	return h.setStatus(c, domain.StatusActive)
}

func (h *SupplierHandler) Deactivate(c echo.Context) error {
	return h.setStatus(c, domain.StatusInactive)
}

func (h *SupplierHandler) setStatus(c echo.Context, status string) error {
	sup, err := h.suppliers.SetStatus(c.Request().Context(), c.Param("code"), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, supplierResponse{Supplier: sup})
}
