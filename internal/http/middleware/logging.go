// Package middleware contains the shared Gin middleware forming the request
// pipeline: correlation, logging, panic recovery, security headers, request
// guards, authentication, and rate limiting.
//
// This file provides the correlation ID injector, the structured access
// logger, and the panic-safe error boundary:
//
//   - RequestID() ensures every request carries a stable correlation ID
//     (propagated via X-Request-ID and stored in the Gin context).
//   - Logger() emits one structured access log per request with
//     request/response metadata, attaches a request-scoped zerolog.Logger,
//     and picks the log level from the outcome (info/warn/error).
//   - Recovery() converts panics into the standard JSON 500 envelope while
//     preserving the correlation ID and logging the stack trace.
//   - LoggerFrom() retrieves the request-scoped logger for handlers and
//     services.
//
// Sensitive request headers (Authorization and anything listed in
// LoggerOptions.MaskHeaders) are never written to logs.
package middleware

import (
	"net/http"
	"runtime/debug"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// requestIDHeader is the HTTP header used to propagate the correlation ID.
	requestIDHeader = "X-Request-ID"
	// loggerKey is the Gin context key for the request-scoped logger.
	loggerKey = "logger"
	// maxQueryLogLength caps the number of bytes of the raw query string logged.
	maxQueryLogLength = 2048
)

// RequestID attaches (or propagates) a correlation identifier per request.
//
// If the incoming request has X-Request-ID, that value is reused; otherwise
// a new UUIDv4 is generated. The ID is written back to the response header
// and stored in the Gin context. Place this first so everything downstream
// (logs, error envelopes) can rely on it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the correlation ID for the current request, or ""
// when RequestID() has not run.
func RequestIDFrom(c *gin.Context) string {
	rid, _ := c.Get(requestIDKey)
	return asString(rid)
}

// LoggerOptions configures the access logger.
type LoggerOptions struct {
	// MaskHeaders lists request headers whose values are replaced with
	// "[masked]" in logs. Authorization is always masked.
	MaskHeaders []string
}

// Logger writes a structured access log per request and stores a
// request-scoped zerolog.Logger in the Gin context. Level selection:
// error for 5xx (or collected Gin errors), warn for 4xx, info otherwise.
//
// Place after RequestID() so logs carry the correlation ID.
func Logger(opt LoggerOptions) gin.HandlerFunc {
	masked := make(map[string]struct{}, len(opt.MaskHeaders)+1)
	masked[http.CanonicalHeaderKey("Authorization")] = struct{}{}
	for _, h := range opt.MaskHeaders {
		masked[http.CanonicalHeaderKey(h)] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			// Route not matched / 404.
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Logger()

		// Record which sensitive headers were present, values withheld.
		if present := presentHeaders(c, masked); len(present) > 0 {
			l = l.With().Strs("masked_headers", present).Logger()
		}

		// Make it available to handlers/services.
		c.Set(loggerKey, &l)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		ev := l.With().
			Str("user_id", asString(mustGet(c, "userID"))).
			Int("status", status).
			Dur("latency", latency).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// presentHeaders lists the canonical names of the given headers that appear
// on the request.
func presentHeaders(c *gin.Context, names map[string]struct{}) []string {
	var present []string
	for name := range names {
		if c.GetHeader(name) != "" {
			present = append(present, name)
		}
	}
	sort.Strings(present)
	return present
}

// Recovery intercepts panics, logs the stack trace with the request ID, and
// returns the standard JSON 500 envelope. This is the pipeline's error
// boundary: nothing below it can crash the process or leak a stack to the
// client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", RequestIDFrom(c)).
					Str("method", c.Request.Method).
					Str("url", c.Request.URL.String()).
					Msg("panic recovered")

				if !c.Writer.Written() {
					abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger, or a fallback logger
// when Logger() has not run. Callers never need a nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// mustGet fetches a context value or nil.
func mustGet(c *gin.Context, key string) any {
	v, _ := c.Get(key)
	return v
}

// asString converts an arbitrary value to a string, or "" when not a string.
func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate caps s at max bytes, appending an ellipsis when cut. A max <= 0
// disables truncation. Byte-level truncation is acceptable for logging.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
