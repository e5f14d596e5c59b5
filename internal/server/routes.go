package server

import (
	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.APIKeyMiddleware())

	// Upload and ingest routes
	apiRoutes.POST("/uploads", routes.UploadExportHandler)
	apiRoutes.GET("/uploads", routes.ListUploadsHandler)
	apiRoutes.GET("/uploads/:id", routes.GetUploadHandler)
	apiRoutes.GET("/activity", routes.GetActivityHandler)

	// Evidence routes
	apiRoutes.GET("/dashboard", routes.GetDashboardHandler)
	apiRoutes.GET("/links", routes.GetLinksHandler)
	apiRoutes.POST("/records/cleanup", routes.CleanupRecordsHandler)

	// Query routes
	apiRoutes.POST("/query", routes.PostQueryHandler)
	apiRoutes.GET("/query/sources", routes.GetSourcesHandler)
	apiRoutes.GET("/query/examples", routes.GetExamplesHandler)

	// Report routes
	apiRoutes.POST("/reports", routes.GenerateReportHandler)
	apiRoutes.GET("/reports", routes.ListReportsHandler)
}
