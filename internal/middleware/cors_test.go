package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsProbe(t *testing.T, origins []string, origin, method string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(method, "/api/assistant/chat", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSExplicitOrigin(t *testing.T) {
	rec := corsProbe(t, []string{"https://august1945.example"}, "https://august1945.example", http.MethodGet)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://august1945.example" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("explicit origin must allow credentials")
	}
}

func TestCORSWildcardNoCredentials(t *testing.T) {
	rec := corsProbe(t, []string{"*"}, "https://somewhere.example", http.MethodGet)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://somewhere.example" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("wildcard match must not allow credentials")
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	rec := corsProbe(t, []string{"https://august1945.example"}, "https://evil.example", http.MethodGet)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("disallowed origin must not receive CORS headers")
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	rec := corsProbe(t, []string{"*"}, "https://somewhere.example", http.MethodOptions)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want %d", rec.Code, http.StatusOK)
	}
}
