package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casafolio/go-property-backend/internal/auth"
	"github.com/casafolio/go-property-backend/internal/domain"
)

var testSecret = []byte("test-secret")

func issueToken(t *testing.T, role domain.Role, ttl time.Duration) string {
	t.Helper()
	iss := auth.NewIssuer(testSecret, ttl)
	tok, err := iss.Issue(domain.User{
		ID:    "11111111-1111-1111-1111-111111111111",
		Email: "owner@example.com",
		Role:  role,
	}, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func authedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Authenticate(auth.NewJWTVerifier(testSecret)))
	chain := append(extra, func(c *gin.Context) {
		id := IdentityFrom(c)
		if id == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.ID, "role": string(id.Role)})
	})
	r.GET("/whoami", chain...)
	return r
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	authedRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAuthenticate_ValidTokenResolvesIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleOwner, time.Hour))
	w := httptest.NewRecorder()
	authedRouter().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, "11111111-1111-1111-1111-111111111111") {
		t.Fatalf("identity not resolved: %s", body)
	}
}

func TestAuthenticate_ExpiredTokenIsDistinct(t *testing.T) {
	iss := auth.NewIssuer(testSecret, time.Hour)
	tok, err := iss.Issue(domain.User{
		ID:   "11111111-1111-1111-1111-111111111111",
		Role: domain.RoleOwner,
	}, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	authedRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if e := envelope(t, w); e["code"] != "TOKEN_EXPIRED" {
		t.Fatalf("code = %v, want TOKEN_EXPIRED", e["code"])
	}
}

func TestAuthenticate_GarbageTokenRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	authedRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if e := envelope(t, w); e["code"] != "INVALID_TOKEN" {
		t.Fatalf("code = %v, want INVALID_TOKEN", e["code"])
	}
}

func TestAuthenticate_WrongSchemeRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	authedRouter().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	w := httptest.NewRecorder()
	authedRouter(RequireAuth()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if e := envelope(t, w); e["code"] != "AUTHENTICATION_REQUIRED" {
		t.Fatalf("code = %v, want AUTHENTICATION_REQUIRED", e["code"])
	}
}

func TestRequireRole(t *testing.T) {
	t.Run("wrong role forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleTenant, time.Hour))
		w := httptest.NewRecorder()
		authedRouter(RequireRole(domain.RoleOwner, domain.RoleManager)).ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
		if e := envelope(t, w); e["code"] != "INSUFFICIENT_PERMISSIONS" {
			t.Fatalf("code = %v", e["code"])
		}
	})

	t.Run("admin always passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleAdmin, time.Hour))
		w := httptest.NewRecorder()
		authedRouter(RequireRole(domain.RoleOwner)).ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})
}
