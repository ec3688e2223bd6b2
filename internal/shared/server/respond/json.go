package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Success writes a 200 OK envelope with success=true and the given fields merged in.
func Success(c *gin.Context, fields gin.H) {
	payload := gin.H{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	JSON(c, http.StatusOK, payload)
}
