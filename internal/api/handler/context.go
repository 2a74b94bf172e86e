package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/middleware"
)

// actor returns the username of the authenticated caller, read from the
// request context. A missing identity means the route was registered without
// the Auth gate.
func actor(c echo.Context) (string, error) {
	identity, ok := middleware.IdentityFromContext(c.Request().Context())
	if !ok || identity.Username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return identity.Username, nil
}
