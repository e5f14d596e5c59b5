package routes

import (
	"errors"
	"net/http"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/store"

	"github.com/labstack/echo/v4"
)

// ListUploadsHandler returns the recent source files with their ingest
// state, newest first.
func ListUploadsHandler(c echo.Context) error {
	type listUploadsParams struct {
		Limit int `query:"limit" validate:"omitempty,min=1,max=200"`
	}

	params := new(listUploadsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	files, err := app.Store.ListSourceFiles(ctx, params.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, files)
}

// GetUploadHandler returns one source file by id, the polling endpoint
// for ingest progress.
func GetUploadHandler(c echo.Context) error {
	type getUploadParams struct {
		ID string `param:"id" validate:"required"`
	}

	params := new(getUploadParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	file, err := app.Store.SourceFileByID(ctx, params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Source file not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, file)
}
