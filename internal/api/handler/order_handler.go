package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderListResponse struct {
	Orders []domain.Order `json:"orders"`
	Count  int            `json:"count"`
}

type orderResponse struct {
	Order *domain.Order `json:"order"`
}

// List returns orders matching the query filters. Users only ever see their
// own orders; admins may filter by customer_id.
func (h *OrderHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	filter := domain.OrderFilter{
		OrderID:       c.QueryParam("order_id"),
		OrderStatus:   domain.OrderStatus(c.QueryParam("order_status")),
		PaymentStatus: domain.PaymentStatus(c.QueryParam("payment_status")),
		CustomerID:    c.QueryParam("customer_id"),
	}
	if !id.IsAdmin() {
		filter.CustomerID = id.Username
	}

	orders, err := h.orders.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return c.JSON(http.StatusOK, messageResponse{Message: "no orders found"})
	}
	return c.JSON(http.StatusOK, orderListResponse{Orders: orders, Count: len(orders)})
}

// Get returns one order. Another user's order is reported as not found.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	orderID := c.Param("order_id")
	order, err := h.orders.Get(c.Request().Context(), orderID)
	if err != nil {
		return err
	}
	if !id.IsAdmin() && order.CustomerID != id.Username {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

// Create places an order owned by the caller. Payment defaults to cash on
// delivery.
func (h *OrderHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req domain.NewOrder
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentCOD
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.Create(c.Request().Context(), id.Username, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderResponse{Order: order})
}

// UpdateStatus changes order_status and/or payment_status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req domain.StatusUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.Update(c.Request().Context(), c.Param("order_id"), req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

// Delete removes an order. Admin only.
func (h *OrderHandler) Delete(c echo.Context) error {
	if err := h.orders.Delete(c.Request().Context(), c.Param("order_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "order deleted"})
}
