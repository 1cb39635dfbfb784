package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheHeaders controls client-side caching of API responses.
//
// GET requests get "Cache-Control: private, max-age=<s>" when maxAge > 0;
// everything else gets "no-store" so stale tenant data never lingers in
// intermediaries. Headers are set before the handler runs, since they must
// precede the first body write; handlers may overwrite them.
func CacheHeaders(maxAge time.Duration) gin.HandlerFunc {
	cacheable := "private, max-age=" + strconv.Itoa(int(maxAge.Seconds()))

	return func(c *gin.Context) {
		if maxAge > 0 && c.Request.Method == http.MethodGet {
			c.Writer.Header().Set("Cache-Control", cacheable)
		} else {
			c.Writer.Header().Set("Cache-Control", "no-store")
		}
		c.Next()
	}
}
