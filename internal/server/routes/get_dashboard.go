package routes

import (
	"net/http"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/pkg/evidence"

	"github.com/labstack/echo/v4"
)

const dashboardRecentLimit = 5

// GetDashboardHandler aggregates the scoped evidence set: counts per
// type and flag, distinct senders, the most recent records, and
// whether the store still holds seed data.
func GetDashboardHandler(c echo.Context) error {
	type dashboardResponse struct {
		Scope           store.Scope                   `json:"scope"`
		SourceFile      string                        `json:"sourceFile,omitempty"`
		Totals          map[evidence.RecordType]int64 `json:"totals"`
		FlagCounts      map[evidence.FlagKind]int64   `json:"flagCounts"`
		DistinctSenders int64                         `json:"distinctSenders"`
		Recent          []store.StoredRecord          `json:"recent"`
		SeedData        bool                          `json:"seedData"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	scope := store.ParseScope(c.QueryParam("scope"), c.QueryParam("sourceFile"))
	sourceFile, err := store.ResolveScope(ctx, app.Store, scope)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	totals, err := app.Store.CountsByType(ctx, sourceFile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	flagCounts, err := app.Store.CountsByFlag(ctx, sourceFile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	senders, err := app.Store.DistinctSenders(ctx, sourceFile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	recent, err := app.Store.Search(ctx, store.Filter{SourceFile: sourceFile, Limit: dashboardRecentLimit})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	seed, err := app.Store.HasSeedData(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		Scope:           scope,
		SourceFile:      sourceFile,
		Totals:          totals,
		FlagCounts:      flagCounts,
		DistinctSenders: senders,
		Recent:          recent,
		SeedData:        seed,
	})
}
