package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSMiddlewareAllowAll(t *testing.T) {
	handler := CORSMiddlewareWithConfig(CORSConfig{}, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/keys", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
}

func TestCORSMiddlewareRestricted(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"http://allowed.example"}}
	handler := CORSMiddlewareWithConfig(cfg, okHandler)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", http.MethodGet, "http://allowed.example", http.StatusOK, "http://allowed.example"},
		{"other origin", http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{"allowed preflight", http.MethodOptions, "http://allowed.example", http.StatusNoContent, "http://allowed.example"},
		{"refused preflight", http.MethodOptions, "http://evil.example", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/transpose", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	if !OriginAllowed(nil, "http://anything") {
		t.Error("empty list should allow every origin")
	}
	if OriginAllowed([]string{"http://a"}, "http://b") {
		t.Error("unlisted origin allowed")
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware(APIContentSecurityPolicy, okHandler)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": APIContentSecurityPolicy,
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}
