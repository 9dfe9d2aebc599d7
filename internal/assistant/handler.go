package assistant

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tvhoang/august-revolution/internal/api"
	"github.com/tvhoang/august-revolution/internal/domain"
	"github.com/tvhoang/august-revolution/internal/identity"
	"github.com/tvhoang/august-revolution/internal/store"
)

// maxRequestBodySize caps chat and settings payloads (64KB).
const maxRequestBodySize = 64 << 10

// Handler exposes the conversational helper over HTTP.
type Handler struct {
	orch *Orchestrator
	repo store.Repository
}

// NewHandler creates an assistant HTTP handler.
func NewHandler(orch *Orchestrator, repo store.Repository) *Handler {
	return &Handler{orch: orch, repo: repo}
}

// RegisterRoutes registers assistant routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/assistant", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Get("/history", h.History)
		r.Post("/reset", h.Reset)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)
		r.Delete("/settings", h.DeleteSettings)
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply domain.Message `json:"reply"`
}

// Chat runs one query cycle and returns the agent's reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.orch.Ask(r.Context(), userID, sessionID, req.Message)
	if err != nil {
		slog.Error("chat cycle failed", "user_id", userID, "session_id", sessionID, "error", err)
		api.Error(w, http.StatusInternalServerError, "assistant is unavailable")
		return
	}

	api.JSON(w, http.StatusOK, chatResponse{Reply: reply})
}

type historyResponse struct {
	Messages []domain.Message `json:"messages"`
}

// History returns the session's conversation, seeded with the greeting when
// no turn has happened yet.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	messages, err := h.repo.ListMessages(r.Context(), userID, sessionID)
	if err != nil {
		slog.Error("failed to list messages", "user_id", userID, "session_id", sessionID, "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	if len(messages) == 0 {
		messages = []domain.Message{{Role: domain.RoleAgent, Content: Greeting}}
	}

	api.JSON(w, http.StatusOK, historyResponse{Messages: messages})
}

// Reset clears the session's conversation.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	if err := h.repo.ClearConversation(r.Context(), userID, sessionID); err != nil {
		slog.Error("failed to reset conversation", "user_id", userID, "session_id", sessionID, "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to reset conversation")
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type settingsRequest struct {
	APIKey     string `json:"api_key"`
	Model      string `json:"model"`
	APIVersion string `json:"api_version"`
}

type settingsResponse struct {
	HasAPIKey  bool   `json:"has_api_key"`
	Model      string `json:"model,omitempty"`
	APIVersion string `json:"api_version,omitempty"`
}

// GetSettings returns the session's stored overrides. The credential itself
// is never echoed back, only whether one is set.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	settings, err := h.repo.GetSettings(r.Context(), userID, sessionID)
	if err != nil {
		slog.Error("failed to load settings", "user_id", userID, "session_id", sessionID, "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	resp := settingsResponse{}
	if settings != nil {
		resp.HasAPIKey = settings.APIKey != ""
		resp.Model = settings.Model
		resp.APIVersion = settings.APIVersion
	}
	api.JSON(w, http.StatusOK, resp)
}

// PutSettings replaces the session's stored overrides.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings := &domain.Settings{
		UserID:     userID,
		SessionID:  sessionID,
		APIKey:     strings.TrimSpace(req.APIKey),
		Model:      strings.TrimSpace(req.Model),
		APIVersion: strings.TrimSpace(req.APIVersion),
	}
	if err := h.repo.UpsertSettings(r.Context(), settings); err != nil {
		slog.Error("failed to save settings", "user_id", userID, "session_id", sessionID, "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteSettings removes the session's stored overrides.
func (h *Handler) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())

	if err := h.repo.DeleteSettings(r.Context(), userID, sessionID); err != nil {
		slog.Error("failed to delete settings", "user_id", userID, "session_id", sessionID, "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to delete settings")
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
