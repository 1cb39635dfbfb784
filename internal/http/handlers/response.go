// Package handlers contains the HTTP handlers and the error normalizer that
// turns tagged faults into the standard JSON envelope.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casafolio/go-property-backend/internal/faults"
	"github.com/casafolio/go-property-backend/internal/http/middleware"
)

// ErrorDetail is the error half of the envelope.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope. Every non-2xx body in the
// API has this shape, whichever layer produced it.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// Responder is the single place errors become HTTP responses. Handlers never
// pick status codes; they hand the error over and the fault tag decides.
//
// Development widens internal error messages to the real cause. In
// production internal messages are always redacted to a generic phrase; the
// cause goes to the server log instead.
type Responder struct {
	Development bool
}

// Respond writes the envelope for err. Classified faults map through the
// tag table; anything unclassified is an internal fault: logged in full
// server-side, redacted client-side unless Development.
func (r Responder) Respond(c *gin.Context, err error) {
	kind := faults.KindOf(err)
	status, code := statusCodeFor(kind)

	detail := ErrorDetail{
		Code:      code,
		Message:   err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: middleware.RequestIDFrom(c),
	}

	switch kind {
	case faults.KindInvalid:
		if issues := faults.IssuesOf(err); len(issues) > 0 {
			detail.Details = map[string]any{"issues": issues}
		}
	case faults.KindInternal:
		middleware.LoggerFrom(c).Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("url", c.Request.URL.String()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("unhandled error")
		if !r.Development {
			detail.Message = "internal server error"
		}
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: detail})
}

// statusCodeFor is the tag table: fault kind to HTTP status and stable code.
func statusCodeFor(kind faults.Kind) (int, string) {
	switch kind {
	case faults.KindInvalid:
		return http.StatusBadRequest, CodeValidation
	case faults.KindUnauthenticated:
		return http.StatusUnauthorized, CodeAuthRequired
	case faults.KindTokenExpired:
		return http.StatusUnauthorized, CodeTokenExpired
	case faults.KindForbidden:
		return http.StatusForbidden, CodeForbidden
	case faults.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case faults.KindConflict:
		return http.StatusConflict, CodeDuplicate
	case faults.KindRateLimited:
		return http.StatusTooManyRequests, CodeRateLimited
	case faults.KindTimeout:
		return http.StatusRequestTimeout, CodeTimeout
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
