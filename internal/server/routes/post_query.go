package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/pkg/evidence"
	"github.com/caseboard/ufdr/backend/pkg/interpreter"
	"github.com/caseboard/ufdr/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

const queryResultLimit = 250

// PostQueryHandler answers a natural language question over the scoped
// evidence. The interpreter produces a structured filter, the store
// runs it, and the answer comes either from the remote model or from
// the deterministic local summary.
func PostQueryHandler(c echo.Context) error {
	type queryRequest struct {
		Question   string `json:"question" validate:"required,min=3,max=2000"`
		Scope      string `json:"scope"`
		SourceFile string `json:"sourceFile"`
	}

	type queryResponse struct {
		Question       string               `json:"question"`
		Scope          store.Scope          `json:"scope"`
		SourceFile     string               `json:"sourceFile,omitempty"`
		Provider       string               `json:"provider"`
		AnswerProvider string               `json:"answerProvider"`
		Note           string               `json:"note,omitempty"`
		Filter         interpreter.Filter   `json:"filter"`
		Answer         string               `json:"answer"`
		Summary        map[string]int       `json:"summary"`
		Records        []store.StoredRecord `json:"records"`
	}

	req := new(queryRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Question is required"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	scope := store.ParseScope(req.Scope, req.SourceFile)
	sourceFile, err := store.ResolveScope(ctx, app.Store, scope)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	interp := app.Interpreter.InterpretQuestion(ctx, req.Question)
	interpreter.SuppressUnmentionedFlags(req.Question, &interp.Filter)

	records, err := app.Store.Search(ctx, storeFilterFrom(interp.Filter, sourceFile))
	if err != nil {
		logger.Error("[Query] Search failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	summary := summarizeRecords(records)

	answer, answerProvider := answerQuestion(c, req.Question, records, summary)

	return c.JSON(http.StatusOK, queryResponse{
		Question:       req.Question,
		Scope:          scope,
		SourceFile:     sourceFile,
		Provider:       interp.Provider,
		AnswerProvider: answerProvider,
		Note:           interp.Note,
		Filter:         interp.Filter,
		Answer:         answer,
		Summary:        summaryCounts(summary),
		Records:        records,
	})
}

// storeFilterFrom maps the interpreter contract onto the store filter.
// LastDays becomes an absolute cutoff at query time.
func storeFilterFrom(filter interpreter.Filter, sourceFile string) store.Filter {
	out := store.Filter{
		Entities:   filter.Entities,
		From:       filter.From,
		To:         filter.To,
		SourceFile: sourceFile,
		Limit:      queryResultLimit,
	}
	for _, recordType := range filter.Types {
		out.Types = append(out.Types, evidence.RecordType(recordType))
	}
	for _, flag := range filter.Flags {
		out.Flags = append(out.Flags, evidence.FlagKind(flag))
	}
	for _, flag := range filter.AnyFlags {
		out.AnyFlags = append(out.AnyFlags, evidence.FlagKind(flag))
	}
	if filter.LastDays > 0 {
		out.After = time.Now().AddDate(0, 0, -filter.LastDays)
	}
	return out
}

func summarizeRecords(records []store.StoredRecord) interpreter.EvidenceSummary {
	summary := interpreter.EvidenceSummary{
		Total:  len(records),
		ByType: make(map[string]int),
		ByFlag: make(map[string]int),
	}
	for _, record := range records {
		summary.ByType[string(record.Type)]++
		if len(record.Flags) > 0 {
			summary.Flagged++
		}
		for _, flag := range record.Flags {
			summary.ByFlag[string(flag)]++
		}
	}
	return summary
}

func summaryCounts(summary interpreter.EvidenceSummary) map[string]int {
	counts := map[string]int{
		"total":   summary.Total,
		"flagged": summary.Flagged,
	}
	for recordType, count := range summary.ByType {
		counts["type:"+recordType] = count
	}
	for flag, count := range summary.ByFlag {
		counts["flag:"+flag] = count
	}
	return counts
}

func answerQuestion(c echo.Context, question string, records []store.StoredRecord, summary interpreter.EvidenceSummary) (string, string) {
	app := c.(*middleware.AppContext).App

	answer, model, err := app.Interpreter.AnswerQuestion(c.Request().Context(), question, contextLines(records))
	if err != nil {
		logger.Warn("[Query] Remote answer unavailable, using local summary", "err", err)
		return interpreter.LocalAnswer(summary), interpreter.ProviderRules
	}
	return answer, model
}

// contextLines renders matched records as compact lines for the answer
// prompt. One record per line keeps the prompt bounded and scannable.
func contextLines(records []store.StoredRecord) []string {
	lines := make([]string, 0, len(records))
	for _, record := range records {
		flags := ""
		if len(record.Flags) > 0 {
			parts := make([]string, 0, len(record.Flags))
			for _, flag := range record.Flags {
				parts = append(parts, string(flag))
			}
			flags = " [" + strings.Join(parts, ",") + "]"
		}
		lines = append(lines, fmt.Sprintf("%s | %s -> %s | %s | %s%s",
			record.Type, record.From, record.To, record.Timestamp, record.Content, flags))
	}
	return lines
}
