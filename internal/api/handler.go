// Package api provides shared HTTP handler utilities for the assistant service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tvhoang/august-revolution/internal/store"
)

const healthCheckTimeout = 5 * time.Second

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo          store.Repository
	knowledgeSize int
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo store.Repository, knowledgeSize int) *HealthHandler {
	return &HealthHandler{repo: repo, knowledgeSize: knowledgeSize}
}

// Health returns the health status of the API and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]interface{}{
		"status": "healthy",
		"checks": map[string]string{"api": "ok"},
	}
	statusCode := http.StatusOK

	checks := status["checks"].(map[string]string)

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.knowledgeSize == 0 {
		status["status"] = "degraded"
		checks["knowledge"] = "empty"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["knowledge"] = "ok"
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
