package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/pkg/evidence"
	"github.com/caseboard/ufdr/backend/pkg/interpreter"
	"github.com/caseboard/ufdr/backend/pkg/logger"
	"github.com/caseboard/ufdr/backend/pkg/report"

	"github.com/labstack/echo/v4"
)

const reportRecordLimit = 1000

// GenerateReportHandler renders the scoped evidence into a PDF or CSV
// attachment. An optional question reruns the interpreter so the
// report carries the same filter and answer the query view showed.
func GenerateReportHandler(c echo.Context) error {
	type reportRequest struct {
		Format     string `json:"format" validate:"required,oneof=pdf csv"`
		Title      string `json:"title" validate:"omitempty,max=200"`
		Question   string `json:"question" validate:"omitempty,max=2000"`
		Scope      string `json:"scope"`
		SourceFile string `json:"sourceFile"`
	}

	req := new(reportRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Format must be pdf or csv"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	scope := store.ParseScope(req.Scope, req.SourceFile)
	sourceFile, err := store.ResolveScope(ctx, app.Store, scope)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	filter := store.Filter{SourceFile: sourceFile, Limit: reportRecordLimit}
	answer := ""
	if req.Question != "" {
		interp := app.Interpreter.InterpretQuestion(ctx, req.Question)
		interpreter.SuppressUnmentionedFlags(req.Question, &interp.Filter)
		filter = storeFilterFrom(interp.Filter, sourceFile)
		filter.Limit = reportRecordLimit
	}

	stored, err := app.Store.Search(ctx, filter)
	if err != nil {
		logger.Error("[Report] Search failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	records := make([]evidence.Record, 0, len(stored))
	for _, record := range stored {
		records = append(records, record.Record)
	}

	if req.Question != "" {
		answer, _, err = app.Interpreter.AnswerQuestion(ctx, req.Question, contextLines(stored))
		if err != nil {
			answer = interpreter.LocalAnswer(summarizeRecords(stored))
		}
	}

	name := report.SanitizeFilename(req.Title)

	switch req.Format {
	case "csv":
		data, err := report.RenderCSV(records)
		if err != nil {
			logger.Error("[Report] CSV render failed", "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to render report"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.csv"`, name))
		return c.Blob(http.StatusOK, "text/csv", data)
	default:
		data, err := report.RenderPDF(report.Params{
			Title:       req.Title,
			Question:    req.Question,
			Answer:      answer,
			Scope:       scopeLabel(scope, sourceFile),
			GeneratedAt: time.Now(),
			Records:     records,
		})
		if err != nil {
			logger.Error("[Report] PDF render failed", "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to render report"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
		return c.Blob(http.StatusOK, "application/pdf", data)
	}
}

func scopeLabel(scope store.Scope, sourceFile string) string {
	if sourceFile != "" {
		return sourceFile
	}
	return string(scope.Kind)
}
