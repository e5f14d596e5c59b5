package routes

import (
	"net/http"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetSourcesHandler lists the source files the evidence table actually
// references, with record counts. Useful for picking a query scope.
func GetSourcesHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	stats, err := app.Store.SourceStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, stats)
}
