package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/marketplace/storefront/internal/api/handler"
	"github.com/marketplace/storefront/internal/api/middleware"
	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/core/ports"
)

// Deps are the services the router exposes over HTTP.
type Deps struct {
	Accounts  ports.AccountService
	Carts     ports.CartService
	Products  ports.ProductService
	Suppliers ports.SupplierService
	Orders    ports.OrderService
	Tokens    middleware.TokenValidator
	Checks    map[string]handler.Check
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	authHandler := handler.NewAuthHandler(d.Accounts)
	cartHandler := handler.NewCartHandler(d.Carts)
	productHandler := handler.NewProductHandler(d.Products)
	supplierHandler := handler.NewSupplierHandler(d.Suppliers)
	orderHandler := handler.NewOrderHandler(d.Orders)
	authMiddleware := middleware.Auth(d.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Health checks and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog (reads are public) ---
	e.GET("/products", productHandler.List)
	e.GET("/products/:code", productHandler.Get)
	e.PUT("/products", productHandler.Create, authMiddleware, adminOnly)
	e.PATCH("/products/:code", productHandler.Update, authMiddleware, adminOnly)
	e.DELETE("/products/:code", productHandler.Delete, authMiddleware, adminOnly)

	// --- Suppliers (reads are public) ---
	e.GET("/suppliers", supplierHandler.List)
	e.GET("/suppliers/:code", supplierHandler.Get)
	suppliers := e.Group("/suppliers", authMiddleware, adminOnly)
	suppliers.POST("", supplierHandler.Create)
	suppliers.PATCH("/:code", supplierHandler.Update)
	suppliers.DELETE("/:code", supplierHandler.Delete)
	suppliers.PATCH("/active/:code", supplierHandler.Activate)
	suppliers.PATCH("/inactive/:code", supplierHandler.Deactivate)

	// --- Cart ---
	cart := e.Group("/cart", authMiddleware)
	cart.GET("", cartHandler.Get)
	cart.PUT("", cartHandler.Add)
	cart.DELETE("", cartHandler.Clear)
	cart.PATCH("/:product_id", cartHandler.Update)
	cart.DELETE("/:product_id", cartHandler.Remove)

	// --- Orders ---
	orders := e.Group("/orders", authMiddleware)
	orders.GET("", orderHandler.List)
	orders.PUT("", orderHandler.Create, middleware.RBAC(domain.RoleUser))
	orders.GET("/:order_id", orderHandler.Get)
	orders.PATCH("/:order_id", orderHandler.UpdateStatus, adminOnly)
	orders.DELETE("/:order_id", orderHandler.Delete, adminOnly)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
