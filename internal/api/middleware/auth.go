package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marketplace/storefront/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextUsername = "username"
	ContextRole     = "role"
)

// TokenValidator verifies a bearer token and returns the identity inside it.
type TokenValidator interface {
	Validate(raw string) (domain.Identity, error)
}

// Auth validates the bearer token and injects its claims into the context.
func Auth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			id, err := tokens.Validate(strings.TrimSpace(raw))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ContextUsername, id.Username)
			c.Set(ContextRole, string(id.Role))

			return next(c)
		}
	}
}
