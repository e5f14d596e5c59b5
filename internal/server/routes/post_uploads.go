package routes

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/caseboard/ufdr/backend/internal/queue"
	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/storage"
	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var supportedUploadExts = map[string]bool{".json": true, ".xml": true, ".csv": true}

// UploadExportHandler accepts one multipart export file, stores the
// raw bytes, registers a pending source file, and enqueues the ingest
// job. Parsing happens in the worker; the response only promises that
// ingestion has started.
func UploadExportHandler(c echo.Context) error {
	type uploadResponse struct {
		Message    string            `json:"message"`
		SourceFile *store.SourceFile `json:"sourceFile,omitempty"`
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Missing file field",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !supportedUploadExts[ext] {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Unsupported file type, use XML, CSV, or JSON",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Unreadable upload",
		})
	}
	defer src.Close()

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	id, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}

	key, err := storage.PutExport(ctx, app.S3, fileHeader.Filename, id, src)
	if err != nil {
		logger.Error("[Upload] Failed to store export", "file", fileHeader.Filename, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Failed to store export",
		})
	}

	sourceFile, err := app.Store.CreateSourceFile(ctx, filepath.Base(fileHeader.Filename), key)
	if err != nil {
		logger.Error("[Upload] Failed to register source file", "file", fileHeader.Filename, "err", err)
		if delErr := storage.DeleteFile(ctx, app.S3, key); delErr != nil {
			logger.Error("[Upload] Failed to remove orphaned export", "key", key, "err", delErr)
		}
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}

	job := queue.IngestJobMsg{
		Message:      "Ingest uploaded export",
		SourceFileID: sourceFile.PublicID,
		FileName:     sourceFile.Name,
		StorageKey:   key,
	}
	if err := queue.PublishIngestJob(app.Queue, job); err != nil {
		logger.Error("[Upload] Failed to enqueue ingest job", "source_file_id", sourceFile.PublicID, "err", err)
		if markErr := app.Store.MarkSourceFileFailed(ctx, sourceFile.PublicID, "failed to enqueue ingest job"); markErr != nil && !errors.Is(markErr, store.ErrNotFound) {
			logger.Error("[Upload] Failed to mark source file failed", "err", markErr)
		}
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Failed to enqueue ingest job",
		})
	}

	logger.Info("[Upload] Export accepted", "source_file_id", sourceFile.PublicID, "file", sourceFile.Name)
	return c.JSON(http.StatusAccepted, uploadResponse{
		Message:    "Export accepted for ingestion",
		SourceFile: &sourceFile,
	})
}
