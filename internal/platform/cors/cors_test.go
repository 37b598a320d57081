package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func handler(origins ...string) http.Handler {
	return Middleware(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
}

func TestMiddleware(t *testing.T) {
	h := handler("https://app.example/")

	t.Run("allowed_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/now", nil)
		req.Header.Set("Origin", "https://app.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
			t.Errorf("allow origin = %q", got)
		}
		if rec.Code != http.StatusTeapot {
			t.Errorf("request did not reach the handler, status %d", rec.Code)
		}
	})

	t.Run("other_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/now", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("allow origin = %q, want none", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/likes", nil)
		req.Header.Set("Origin", "https://app.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTeapot || rec.Code >= 300 {
			t.Errorf("preflight status = %d, want it answered by the middleware", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
			t.Errorf("allow methods = %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
			t.Errorf("allow headers = %q", got)
		}
		if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
			t.Errorf("max age = %q", got)
		}
	})

	t.Run("preflight_other_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/likes", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("allow origin = %q, want none", got)
		}
	})
}

func TestMiddleware_wildcard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://anything.example")
	rec := httptest.NewRecorder()
	handler("*").ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("missing allow origin for wildcard")
	}
}

func TestMiddleware_disabled(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://anything.example")
	rec := httptest.NewRecorder()
	handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow origin = %q, want none", got)
	}
}
