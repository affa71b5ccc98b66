package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// addItemRequest mirrors a cart line. Name and price are accepted for
// compatibility but the catalog's values win.
type addItemRequest struct {
	ProductID   string  `json:"product_id"   validate:"required"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"        validate:"gte=0"`
	Quantity    int     `json:"quantity"     validate:"gte=1"`
	ImageURL    string  `json:"image_url"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type cartResponse struct {
	Message string      `json:"message,omitempty"`
	Cart    domain.Cart `json:"cart"`
}

// Get returns the caller's cart.
func (h *CartHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return h.respond(c, id.Username, "")
}

// Add puts a product in the cart. Quantity defaults to 1.
func (h *CartHandler) Add(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item := domain.LineItem{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
	}
	if err := h.carts.Add(c.Request().Context(), id.Username, item); err != nil {
		return err
	}
	return h.respond(c, id.Username, "item added to cart")
}

// Update sets a line's quantity; 0 removes the line.
func (h *CartHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	productID := c.Param("product_id")
	if err := h.carts.SetQuantity(c.Request().Context(), id.Username, productID, *req.Quantity); err != nil {
		return err
	}

	msg := "quantity updated"
	if *req.Quantity == 0 {
		msg = "item removed from cart"
	}
	return h.respond(c, id.Username, msg)
}

// Remove drops a single line.
func (h *CartHandler) Remove(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.carts.Remove(c.Request().Context(), id.Username, c.Param("product_id")); err != nil {
		return err
	}
	return h.respond(c, id.Username, "item removed from cart")
}

// Clear empties the cart.
func (h *CartHandler) Clear(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.carts.Clear(c.Request().Context(), id.Username); err != nil {
		return err
	}
	return h.respond(c, id.Username, "cart cleared")
}

func (h *CartHandler) respond(c echo.Context, username, msg string) error {
	cart, err := h.carts.Get(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Message: msg, Cart: cart})
}
