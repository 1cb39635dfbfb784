package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSecurityHeaders_Baseline(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := perform(t, req, RequestID(), SecurityHeaders(SecurityOptions{}))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := w.Header().Get(header); got != want {
			t.Fatalf("%s = %q, want %q", header, got, want)
		}
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS emitted on plain HTTP")
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	opt := SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := perform(t, req, SecurityHeaders(opt))
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=3600; includeSubDomains" {
		t.Fatalf("HSTS = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	w = perform(t, req, SecurityHeaders(opt))
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS emitted without HTTPS signal")
	}
}

func TestCacheHeaders(t *testing.T) {
	t.Run("get is cacheable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := perform(t, req, CacheHeaders(30*time.Second))
		if got := w.Header().Get("Cache-Control"); got != "private, max-age=30" {
			t.Fatalf("Cache-Control = %q", got)
		}
	})

	t.Run("mutation is no-store", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ping", nil)
		w := perform(t, req, CacheHeaders(30*time.Second))
		if got := w.Header().Get("Cache-Control"); got != "no-store" {
			t.Fatalf("Cache-Control = %q", got)
		}
	})

	t.Run("zero max age disables caching", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := perform(t, req, CacheHeaders(0))
		if got := w.Header().Get("Cache-Control"); got != "no-store" {
			t.Fatalf("Cache-Control = %q", got)
		}
	})
}

func TestTimeout_ConvertsDeadlineTo408(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Timeout(10*time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
		// Handler observed cancellation and returned without writing.
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("status = %d, want 408", w.Code)
	}
	if e := envelope(t, w); e["code"] != "REQUEST_TIMEOUT" {
		t.Fatalf("code = %v", e["code"])
	}
}
