//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tvhoang/august-revolution/internal/store"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, "bad input")

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["error"] != "bad input" {
		t.Errorf("Expected error message, got %v", got["error"])
	}
}

// pingRepo stubs only the Ping method; embedding the interface leaves
// the rest unimplemented, which the health handler never calls.
type pingRepo struct {
	store.Repository
	err error
}

func (p *pingRepo) Ping(context.Context) error { return p.err }

func TestHealthOK(t *testing.T) {
	h := NewHealthHandler(&pingRepo{}, 12)
	w := httptest.NewRecorder()

	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var got struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.Status != "healthy" {
		t.Errorf("Expected healthy, got %q", got.Status)
	}
	if got.Checks["database"] != "ok" || got.Checks["knowledge"] != "ok" {
		t.Errorf("Unexpected checks: %v", got.Checks)
	}
}

func TestHealthDegradedDatabase(t *testing.T) {
	h := NewHealthHandler(&pingRepo{err: context.DeadlineExceeded}, 12)
	w := httptest.NewRecorder()

	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}
}

func TestHealthDegradedEmptyKnowledge(t *testing.T) {
	h := NewHealthHandler(&pingRepo{}, 0)
	w := httptest.NewRecorder()

	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}
}
