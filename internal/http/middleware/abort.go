package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// abortError stops the request with the standard error envelope. Middleware
// writes the envelope inline rather than importing the handlers package,
// which sits above it in the dependency order.
func abortError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":       code,
			"message":    msg,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"request_id": c.Writer.Header().Get(requestIDHeader),
		},
	})
}
