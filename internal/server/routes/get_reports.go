package routes

import (
	"net/http"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/store"

	"github.com/labstack/echo/v4"
)

// ListReportsHandler returns the reportable source files: each ready
// source file with its summary counts, so a client can offer one
// report entry per ingest.
func ListReportsHandler(c echo.Context) error {
	type reportEntry struct {
		SourceFile string             `json:"sourceFile"`
		Name       string             `json:"name"`
		Counts     store.IngestCounts `json:"counts"`
		Total      int64              `json:"total"`
		UpdatedAt  string             `json:"updatedAt"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	files, err := app.Store.ListSourceFiles(ctx, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	entries := make([]reportEntry, 0, len(files))
	for _, file := range files {
		if file.State != store.SourceStateReady {
			continue
		}
		entries = append(entries, reportEntry{
			SourceFile: file.PublicID,
			Name:       file.Name,
			Counts:     file.Counts,
			Total:      file.Counts.Total(),
			UpdatedAt:  file.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"reports": entries})
}
