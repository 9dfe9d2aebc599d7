// Package relay exposes a same-origin Gemini relay so browsers without their
// own credential can still reach the generation API. The server-side key
// never leaves the process.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tvhoang/august-revolution/internal/config"
	"github.com/tvhoang/august-revolution/internal/gemini"
)

// maxRelayBodySize caps relay payloads (256KB, context entries included).
const maxRelayBodySize = 256 << 10

// Generator is the upstream call the relay forwards to.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request, credential string) (string, error)
}

// Handler relays generation requests using a server-held credential.
type Handler struct {
	client     Generator
	credential string
}

// NewHandler creates a relay handler. An empty credential is allowed; the
// relay then answers every request with a configuration error.
func NewHandler(client Generator, credential string) *Handler {
	return &Handler{client: client, credential: credential}
}

// RegisterRoutes registers the relay endpoint on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/api/gemini", h.Relay)
}

// errorEnvelope mirrors the upstream error shape so browser callers can
// treat relay failures and direct failures uniformly.
func errorEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": message},
	})
}

// Relay forwards one generation request upstream and returns its text.
func (h *Handler) Relay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		errorEnvelope(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	if h.credential == "" {
		errorEnvelope(w, http.StatusInternalServerError, "GEMINI_API_KEY is not configured on the server")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRelayBodySize)
	var req gemini.RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorEnvelope(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		errorEnvelope(w, http.StatusBadRequest, "query is required")
		return
	}

	model := req.Model
	if model == "" {
		model = config.DefaultModel
	}
	apiVersion := req.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}

	text, err := h.client.Generate(r.Context(), gemini.Request{
		Query:      req.Query,
		Context:    gemini.TruncateContext(req.Context),
		Model:      model,
		APIVersion: apiVersion,
	}, h.credential)
	if err != nil {
		status := gemini.StatusOf(err)
		message := err.Error()
		var genErr *gemini.GenerationError
		if errors.As(err, &genErr) {
			message = genErr.Message
		}
		if status == 0 {
			status = http.StatusBadGateway
		}
		slog.Warn("relay generation failed", "status", status, "error", err)
		errorEnvelope(w, status, message)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
}
