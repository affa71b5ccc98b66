package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/storefront/internal/api/middleware"
	"github.com/marketplace/storefront/internal/core/domain"
)

// ctxIdentity extracts the claims injected by the Auth middleware. A missing
// or unknown role means the middleware did not run for this route.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	username, _ := c.Get(middleware.ContextUsername).(string)
	role, _ := c.Get(middleware.ContextRole).(string)

	id := domain.Identity{Username: username, Role: domain.Role(role)}
	if err := id.Validate(); err != nil {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
