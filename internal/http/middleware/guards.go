// This file provides the request guards that reject malformed or abusive
// traffic before it reaches validation and business logic: payload size
// ceilings, content-type allow-listing, API version pinning, and a
// user-agent check.
package middleware

import (
	"mime"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// BodyLimit rejects requests whose declared Content-Length exceeds max with
// 413 and, regardless of what was declared, caps the body reader at max
// bytes so chunked or lying clients cannot stream past the ceiling.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			abortError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				"request body exceeds the "+strconv.FormatInt(max, 10)+" byte limit")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

// ContentTypeAllowList rejects mutating requests that carry a body with a
// media type outside the allow list (415). Requests without a body, such as
// a bare DELETE, pass untouched; so do reads.
func ContentTypeAllowList(types ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[strings.ToLower(t)] = struct{}{}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}
		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		mt, _, err := mime.ParseMediaType(c.ContentType())
		if err != nil {
			abortError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
				"malformed Content-Type header")
			return
		}
		if _, ok := allowed[mt]; !ok {
			abortError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
				"unsupported media type "+mt)
			return
		}
		c.Next()
	}
}

// versionedPath matches /api/v{N} prefixes so unsupported versions fail fast
// with a clear code instead of a generic 404.
var versionedPath = regexp.MustCompile(`^/api/v(\d+)(?:/|$)`)

// VersionAllowList rejects requests addressed to an API version outside the
// supported set. Paths without a version prefix (health, metrics) pass.
func VersionAllowList(supported []int) gin.HandlerFunc {
	ok := make(map[int]struct{}, len(supported))
	for _, v := range supported {
		ok[v] = struct{}{}
	}

	return func(c *gin.Context) {
		m := versionedPath.FindStringSubmatch(c.Request.URL.Path)
		if m == nil {
			c.Next()
			return
		}
		v, err := strconv.Atoi(m[1])
		if err == nil {
			if _, supported := ok[v]; supported {
				c.Next()
				return
			}
		}
		abortError(c, http.StatusBadRequest, "UNSUPPORTED_API_VERSION",
			"API version v"+m[1]+" is not supported")
	}
}

// botSignature matches common automation user agents. Matches are logged for
// operators, not blocked: plenty of legitimate clients (health checkers, SDK
// defaults) trip these patterns.
var botSignature = regexp.MustCompile(`(?i)\b(bot|crawler|spider|scraper|curl|wget|python-requests)\b`)

// BotGuard requires a User-Agent header (400 when absent) and flags likely
// automation in the request log.
func BotGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := c.Request.UserAgent()
		if strings.TrimSpace(ua) == "" {
			abortError(c, http.StatusBadRequest, "USER_AGENT_REQUIRED",
				"User-Agent header is required")
			return
		}
		if botSignature.MatchString(ua) {
			LoggerFrom(c).Debug().Str("user_agent", ua).Msg("bot signature in user agent")
		}
		c.Next()
	}
}
