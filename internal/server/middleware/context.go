package middleware

import (
	"github.com/caseboard/ufdr/backend/internal/store"
	"github.com/caseboard/ufdr/backend/pkg/interpreter"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

// App bundles the shared collaborators every handler needs.
type App struct {
	DBConn      *pgxpool.Pool
	Queue       *amqp091.Channel
	S3          *s3.Client
	Store       store.EvidenceStore
	Interpreter *interpreter.Client
	APIKey      string
}

// AppContext wraps the echo context with the application handle.
// Handlers type-assert the context to reach the collaborators.
type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
