// internal/pkg/response/response.go
package response

import (
	"cmp"
	"errors"
	"net/http"

	xerrors "leaddesk-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Messages shared by every auth failure path. They never say which check failed.
const (
	MsgUnauthenticated    = "Please authenticate"
	MsgAccessDenied       = "Access denied"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInternal           = "internal server error"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(cmp.Or(status, http.StatusOK), Response{Success: true, Message: message, Data: data})
}

// Error aborts the chain and writes a failure envelope. The optional data
// argument carries per-field validation messages.
func Error(c *gin.Context, status int, message string, err error, data ...any) {
	body := Response{Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.AbortWithStatusJSON(status, body)
}

// FromError maps an application error onto the HTTP taxonomy.
// Internal failures are attached to the gin context for the logging middleware
// and answered with a generic message.
func FromError(c *gin.Context, err error) {
	if ve, ok := xerrors.AsValidation(err); ok {
		Error(c, http.StatusBadRequest, "validation failed", nil, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		Unauthorized(c, MsgInvalidCredentials)
	case errors.Is(err, xerrors.ErrUnauthorized):
		Unauthorized(c, MsgUnauthenticated)
	case errors.Is(err, xerrors.ErrForbidden):
		Forbidden(c, MsgAccessDenied)
	case errors.Is(err, xerrors.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, xerrors.ErrConflict), errors.Is(err, xerrors.ErrInvalidInput):
		Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, err.Error(), nil)
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, MsgInternal, nil)
	}
}

// ValidationError is used for request bodies gin could not bind.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

func Unauthorized(c *gin.Context, message string) { Error(c, http.StatusUnauthorized, message, nil) }
func Forbidden(c *gin.Context, message string)    { Error(c, http.StatusForbidden, message, nil) }
func NotFound(c *gin.Context, message string)     { Error(c, http.StatusNotFound, message, nil) }
