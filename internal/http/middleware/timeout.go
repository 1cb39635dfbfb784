package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout attaches a deadline to the request context. Handlers and services
// observe it through ctx cancellation (database calls, outbound requests);
// when the deadline fires before anything was written, the client gets the
// standard 408 envelope instead of a hung connection.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			abortError(c, http.StatusRequestTimeout, "REQUEST_TIMEOUT", "request timed out")
		}
	}
}
