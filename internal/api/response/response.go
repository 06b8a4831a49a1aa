package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message is the payload of every error and of message-only successes.
type Message struct {
	Detail string `json:"detail"`
}

// JSON writes body with the given status code.
func JSON(c *gin.Context, code int, body any) {
	c.JSON(code, body)
}

// Detail writes a {"detail": message} payload.
func Detail(c *gin.Context, code int, message string) {
	c.JSON(code, Message{Detail: message})
}

// Abort writes a {"detail": message} payload and stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Message{Detail: message})
}

// Fail writes err as a response. An Error keeps its own code and message;
// anything else is logged and turned into a 500 carrying fallback.
func Fail(c *gin.Context, err error, fallback string) {
	var apiErr Error
	if errors.As(err, &apiErr) {
		Detail(c, apiErr.Code, apiErr.Detail)
		return
	}

	slog.ErrorContext(c.Request.Context(), "Request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	_ = c.Error(err)
	Detail(c, http.StatusInternalServerError, fallback)
}
