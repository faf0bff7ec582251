package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is written for every failed request. Details only carries
// field-level validation messages, never library or database error text.
type ErrorBody struct {
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// Success writes {"message": message, ...fields}.
func Success(ctx *gin.Context, status int, message string, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{"message": message}
	for k, v := range fields {
		if k == "message" {
			continue
		}
		body[k] = v
	}
	ctx.JSON(status, body)
}

// Error writes an ErrorBody and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		RequestID: ctx.GetString("request_id"),
		Details:   details,
	})
}
