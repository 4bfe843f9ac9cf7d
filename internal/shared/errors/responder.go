package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responder writes error envelopes for failed requests.
type Responder struct {
	logger *slog.Logger
}

// NewResponder creates a responder. Unknown errors are logged on logger when set.
func NewResponder(logger *slog.Logger) *Responder {
	return &Responder{logger: logger}
}

// DefaultResponder logs through the process default logger.
var DefaultResponder = NewResponder(nil)

// Respond aborts the request with the problem's status and envelope.
func (r *Responder) Respond(c *gin.Context, problem Problem) {
	status := problem.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, problem.Response())
}

// RespondError converts err to a Problem and responds.
// Errors that are not problems become ERR000 without leaking their text.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem Problem
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.log().LogAttrs(c.Request.Context(), slog.LevelError, "unhandled request error",
		slog.String("path", c.FullPath()),
		slog.String("method", c.Request.Method),
		slog.String("error", err.Error()))
	r.Respond(c, ErrInternal)
}

func (r *Responder) log() *slog.Logger {
	if r == nil || r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem Problem) {
	DefaultResponder.Respond(c, problem)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}
