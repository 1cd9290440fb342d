package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

// ErrorBody is the error contract the dashboard client consumes: a flat
// message plus optional per-item errors for batch validation failures.
type ErrorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Detail  string   `json:"detail,omitempty"`
}

// JSON writes a success payload as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Message writes a bare {message} body.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Message: message})
}

// Error converts any error into the flat error contract. Wrapped internal
// detail is only exposed outside release mode; production responses carry
// the redacted message alone.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := ErrorBody{Message: appErr.Message, Errors: appErr.Details}
	if appErr.Err != nil && gin.Mode() != gin.ReleaseMode {
		body.Detail = appErr.Err.Error()
	}
	c.JSON(appErr.Status, body)
}
