package routes

import (
	"net/http"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CleanupRecordsHandler deletes rows with no usable field at all. Such
// rows can slip in from exports whose shape matched a record container
// but carried no content.
func CleanupRecordsHandler(c echo.Context) error {
	type cleanupResponse struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	deleted, err := app.Store.DeleteEmptyRecords(ctx)
	if err != nil {
		logger.Error("[Cleanup] Failed to delete empty records", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	logger.Info("[Cleanup] Removed empty records", "deleted", deleted)
	return c.JSON(http.StatusOK, cleanupResponse{
		Message: "Cleanup complete",
		Deleted: deleted,
	})
}
