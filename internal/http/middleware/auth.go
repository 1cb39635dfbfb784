// This file provides the authentication middleware: bearer-token resolution,
// the authenticated-only gate, and role gating.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/casafolio/go-property-backend/internal/auth"
	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
)

const (
	// identityKey is the Gin context key holding the resolved *domain.Identity.
	identityKey = "identity"
	// userIDKey mirrors the identity's ID for log enrichment and rate keying.
	userIDKey = "userID"
)

// Authenticate resolves the Authorization header, when present, into an
// identity stored in the request context.
//
// Requests without credentials proceed anonymously; whether anonymity is
// acceptable is decided later by RequireAuth on protected routes. Requests
// that do present a credential must present a valid one: a malformed or
// expired token aborts with 401 even on otherwise public routes, with
// expiry reported distinctly so clients know to refresh rather than
// re-authenticate.
//
// Must run before the rate limiter so authenticated ceilings apply.
func Authenticate(v auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			abortError(c, http.StatusUnauthorized, "INVALID_TOKEN",
				"Authorization header must use the Bearer scheme")
			return
		}

		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("token rejected")
			if faults.IsKind(err, faults.KindTokenExpired) {
				abortError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired")
				return
			}
			abortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
			return
		}

		c.Set(identityKey, id)
		c.Set(userIDKey, id.ID)
		c.Next()
	}
}

// RequireAuth aborts anonymous requests with 401. Protected route groups
// mount it after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c) == nil {
			abortError(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED",
				"authentication required")
			return
		}
		c.Next()
	}
}

// RequireRole aborts authenticated requests whose role is outside the given
// set with 403. Admin always passes. Anonymous requests get 401; mount after
// Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		id := IdentityFrom(c)
		if id == nil {
			abortError(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED",
				"authentication required")
			return
		}
		if id.Role != domain.RoleAdmin {
			if _, ok := allowed[id.Role]; !ok {
				abortError(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS",
					"insufficient permissions")
				return
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the resolved identity for the request, or nil for
// anonymous traffic.
func IdentityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}

// MustIdentity returns the resolved identity and errors when the request is
// anonymous. Handlers behind RequireAuth use it instead of re-checking.
func MustIdentity(c *gin.Context) (*domain.Identity, error) {
	if id := IdentityFrom(c); id != nil {
		return id, nil
	}
	return nil, faults.Unauthenticated("authentication required")
}

// bearerToken extracts the credential from an Authorization header value.
func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
