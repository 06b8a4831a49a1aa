package auth

import (
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/response"
	"ctchen222/todo-api/internal/i18n"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const userContextKey = "auth.user"

var authFailures, _ = otel.Meter("auth").Int64Counter("todo.auth.failures",
	metric.WithDescription("Requests rejected for a missing or invalid credential."))

// Middleware rejects requests that the strategy cannot authenticate with 401
// before any handler runs, and stores the resolved user on the context.
func Middleware(strategy Strategy, msgs *i18n.Messages) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := strategy.Authenticate(c.Request)
		if err != nil {
			ctx := c.Request.Context()
			if !errors.Is(err, ErrUnauthenticated) {
				slog.ErrorContext(ctx, "Authentication backend failed", "strategy", strategy.Name(), "error", err)
				response.Abort(c, http.StatusInternalServerError, msgs.Get(i18n.InternalError))
				return
			}
			authFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", strategy.Name())))
			response.Abort(c, http.StatusUnauthorized, msgs.Get(i18n.Unauthenticated))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Middleware. It panics when called
// from a route that is not behind Middleware.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}
