package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tvhoang/august-revolution/internal/config"
)

func TestSPAHandlerServesIndex(t *testing.T) {
	h := SPAHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Cách mạng tháng Tám") {
		t.Error("index.html content missing")
	}
}

func TestSPAHandlerFallsBackToIndex(t *testing.T) {
	h := SPAHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/some/client/route", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>") {
		t.Error("expected index.html fallback")
	}
}

func TestMetaSourceSkipsEmptyTags(t *testing.T) {
	src := MetaSource()

	// The shipped page declares the gemini meta tags with empty content,
	// so the source must report them as unset.
	if _, ok := src(config.KeyModel); ok {
		t.Error("empty meta content must not resolve")
	}
	if _, ok := src(config.KeyAPIVersion); ok {
		t.Error("empty meta content must not resolve")
	}
}

func TestMetaTagPattern(t *testing.T) {
	page := `<meta name="gemini-model" content="gemini-2.5-pro" /><meta name="gemini-api-version" content="v1" />`
	matches := metaTagPattern.FindAllStringSubmatch(page, -1)
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0][1] != "gemini-model" || matches[0][2] != "gemini-2.5-pro" {
		t.Errorf("unexpected match %v", matches[0])
	}
}
