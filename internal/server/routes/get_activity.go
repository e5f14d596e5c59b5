package routes

import (
	"net/http"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

const activityLimit = 20

// GetActivityHandler returns the recent ingest activity feed: source
// files with their state and counts, most recently updated first.
func GetActivityHandler(c echo.Context) error {
	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	files, err := app.Store.ListSourceFiles(ctx, activityLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, files)
}
