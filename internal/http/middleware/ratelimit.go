// This file provides the fixed-window rate-limiting middleware. Windows,
// ceilings and counter storage live in internal/ratelimit; this layer picks
// the bucket key, surfaces quota headers, and rejects over-quota requests.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casafolio/go-property-backend/internal/ratelimit"
)

// RateLimiter binds the counter store to the request pipeline. One limiter
// is shared by every class so all classes count against the same store.
type RateLimiter struct {
	store ratelimit.Store
}

// NewRateLimiter constructs a RateLimiter over the given store.
func NewRateLimiter(store ratelimit.Store) *RateLimiter {
	return &RateLimiter{store: store}
}

// Limit enforces the given class on the routes it is mounted on.
//
// Requests with a resolved identity are keyed by user ID, everything else by
// client address, so NATed offices do not starve each other once their users
// sign in. Classes marked per-address (authentication attempts) always key
// by address. Mount after Authenticate, never before.
//
// Every response carries X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset (unix seconds); rejections add Retry-After. A store
// failure fails open: availability beats strict accounting when the counter
// backend is down.
func (rl *RateLimiter) Limit(class ratelimit.Class) gin.HandlerFunc {
	return func(c *gin.Context) {
		authed := IdentityFrom(c) != nil
		ceiling := class.Ceiling(authed)

		key := class.Name + ":" + bucketKey(c, class)
		count, reset, err := rl.store.Incr(c.Request.Context(), key, class.Window)
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Str("class", class.Name).
				Msg("rate limit store unavailable, failing open")
			c.Next()
			return
		}

		remaining := int64(ceiling) - count
		if remaining < 0 {
			remaining = 0
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(ceiling))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > int64(ceiling) {
			retry := int(time.Until(reset).Seconds())
			if retry < 1 {
				retry = 1
			}
			h.Set("Retry-After", strconv.Itoa(retry))
			abortError(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"too many requests, retry later")
			return
		}
		c.Next()
	}
}

// bucketKey selects the counting subject for the request.
func bucketKey(c *gin.Context, class ratelimit.Class) string {
	if !class.PerIP {
		if id := IdentityFrom(c); id != nil {
			return "user:" + id.ID
		}
	}
	return "ip:" + c.ClientIP()
}
