package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error names surfaced in the envelope's "error" field.
const (
	ErrNameValidation     = "ValidationError"
	ErrNameAuthentication = "AuthenticationRequired"
	ErrNamePermission     = "PermissionDenied"
	ErrNameNotFound       = "NotFound"
	ErrNameConflict       = "Conflict"
	ErrNameInternal       = "InternalError"
)

// APIError is the single error envelope every endpoint returns.
// Detail is either a field->message map or a plain string.
type APIError struct {
	Name       string `json:"error"`
	StatusCode int    `json:"status_code"`
	Detail     any    `json:"detail"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return e.Name
}

func respond(c *gin.Context, name string, status int, detail any) {
	c.JSON(status, &APIError{
		Name:       name,
		StatusCode: status,
		Detail:     detail,
	})
}

// ValidationFailed sends a 400 with an aggregated field-error map.
func ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	respond(c, ErrNameValidation, http.StatusBadRequest, fieldErrors)
}

// BadRequest sends a 400 with a string detail.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	respond(c, ErrNameValidation, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	respond(c, ErrNameAuthentication, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	respond(c, ErrNamePermission, http.StatusForbidden, message)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	respond(c, ErrNameNotFound, http.StatusNotFound, message)
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	respond(c, ErrNameConflict, http.StatusConflict, message)
}

// InternalError sends a 500 response. The detail stays generic; context for
// debugging belongs in the log, not the envelope.
func InternalError(c *gin.Context) {
	respond(c, ErrNameInternal, http.StatusInternalServerError, "An unexpected error occurred.")
}
