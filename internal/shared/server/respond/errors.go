package respond

import (
	"github.com/gin-gonic/gin"

	"resumatch-backend/internal/shared/telemetry"
)

// FailureResponse is the error envelope every handler returns.
// ErrorCode is a stable machine-readable code the client can branch on
// without string-matching the human message; it is omitted when no
// recognized code applies.
type FailureResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Failure sends the standardized failure envelope and logs the terminal condition.
func Failure(c *gin.Context, status int, errorCode, message string) {
	fields := map[string]any{
		"status":     status,
		"error_code": errorCode,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, FailureResponse{
		Success:   false,
		Error:     message,
		ErrorCode: errorCode,
	})
}
