package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// exampleQuestions seeds the query UI with questions the interpreter
// handles well, one per filter dimension.
var exampleQuestions = []string{
	"Show all crypto transactions",
	"List suspicious calls from the last 7 days",
	"Which chats contain links?",
	"Show foreign communications",
	"Find messages with phone numbers in the text",
	"Show calls from +9198XXXXXX01 to +4412XXXXXX07",
	"Who talked the most last month?",
}

// GetExamplesHandler returns the static example question list.
func GetExamplesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"examples": exampleQuestions})
}
