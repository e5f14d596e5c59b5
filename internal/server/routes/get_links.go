package routes

import (
	"net/http"

	"github.com/caseboard/ufdr/backend/internal/server/middleware"
	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/pkg/evidence"
	"github.com/caseboard/ufdr/backend/pkg/linkgraph"

	"github.com/labstack/echo/v4"
)

// linksSearchLimit bounds how many records feed the graph build. The
// layout stage reduces the result far below this anyway.
const linksSearchLimit = 5000

const (
	defaultMaxNodes  = 40
	defaultMinWeight = 1
)

// GetLinksHandler builds the relationship graph over the scoped
// communication records and returns the filtered, positioned view.
func GetLinksHandler(c echo.Context) error {
	type linksParams struct {
		Scope      string `query:"scope"`
		SourceFile string `query:"sourceFile"`
		MaxNodes   int    `query:"maxNodes" validate:"omitempty,min=1,max=500"`
		MinWeight  int    `query:"minWeight" validate:"omitempty,min=1,max=100"`
	}

	type linksResponse struct {
		Scope      store.Scope                `json:"scope"`
		SourceFile string                     `json:"sourceFile,omitempty"`
		Nodes      []linkgraph.PositionedNode `json:"nodes"`
		Edges      []linkgraph.Edge           `json:"edges"`
	}

	params := new(linksParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.MaxNodes == 0 {
		params.MaxNodes = defaultMaxNodes
	}
	if params.MinWeight == 0 {
		params.MinWeight = defaultMinWeight
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	scope := store.ParseScope(params.Scope, params.SourceFile)
	sourceFile, err := store.ResolveScope(ctx, app.Store, scope)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	stored, err := app.Store.Search(ctx, store.Filter{
		Types:      []evidence.RecordType{evidence.TypeChat, evidence.TypeCall},
		SourceFile: sourceFile,
		Limit:      linksSearchLimit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	records := make([]evidence.Record, 0, len(stored))
	for _, record := range stored {
		records = append(records, record.Record)
	}

	nodes, edges := linkgraph.Build(records)
	positioned, visible := linkgraph.FilterAndLayout(nodes, edges, params.MaxNodes, params.MinWeight)

	return c.JSON(http.StatusOK, linksResponse{
		Scope:      scope,
		SourceFile: sourceFile,
		Nodes:      positioned,
		Edges:      visible,
	})
}
