package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casafolio/go-property-backend/internal/auth"
	"github.com/casafolio/go-property-backend/internal/http/middleware"
	"github.com/casafolio/go-property-backend/internal/repo"
	"github.com/casafolio/go-property-backend/internal/services"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	secret := []byte("handler-test-secret")
	h := NewAuthHandler(
		services.NewAccountService(db),
		auth.NewIssuer(secret, time.Hour),
		Responder{Development: true},
	)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Authenticate(auth.NewJWTVerifier(secret)))
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/me", middleware.RequireAuth(), h.Me)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	r := authRouter(t)

	w := postJSON(r, "/auth/register", `{"email":"owner@example.com","password":"s3cret-pass"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d (%s)", w.Code, w.Body.String())
	}
	var session struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if session.Token == "" || session.User.ID == "" {
		t.Fatalf("session incomplete: %+v", session)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", w.Body.String())
	}

	w = postJSON(r, "/auth/login", `{"email":"owner@example.com","password":"s3cret-pass"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d (%s)", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "owner@example.com") {
		t.Fatalf("me body = %s", rec.Body.String())
	}
}

func TestAuthFlow_Failures(t *testing.T) {
	r := authRouter(t)
	postJSON(r, "/auth/register", `{"email":"owner@example.com","password":"s3cret-pass"}`)

	t.Run("duplicate email", func(t *testing.T) {
		w := postJSON(r, "/auth/register", `{"email":"owner@example.com","password":"other-pass"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
		if !strings.Contains(w.Body.String(), CodeDuplicate) {
			t.Fatalf("body = %s", w.Body.String())
		}
	})

	t.Run("short password", func(t *testing.T) {
		w := postJSON(r, "/auth/register", `{"email":"x@example.com","password":"short"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := postJSON(r, "/auth/login", `{"email":"owner@example.com","password":"wrong-pass"}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("me without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}
