package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyMiddleware enforces the optional shared API key. With no key
// configured the check is a no-op; the deployment decides whether the
// API is open.
func APIKeyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := c.(*AppContext).App
			if app.APIKey == "" {
				return next(c)
			}

			provided := c.Request().Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(app.APIKey)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}
