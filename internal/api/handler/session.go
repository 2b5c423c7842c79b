package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omkarsat/lumi-agent/internal/api/response"
	"github.com/omkarsat/lumi-agent/internal/domain"
)

// SessionHandler exposes conversation history operations
type SessionHandler struct {
	sessions domain.SessionStore
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions domain.SessionStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type turnResponse struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// History returns the session's turns in order
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		response.BadRequest(w, "missing session ID")
		return
	}

	turns := h.sessions.History(sessionID)
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, turnResponse{Role: string(t.Role), Text: t.Text})
	}

	response.OK(w, map[string]any{
		"session_id": sessionID,
		"history":    out,
	})
}

// Clear drops the session's history
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		response.BadRequest(w, "missing session ID")
		return
	}

	h.sessions.Clear(sessionID)
	response.NoContent(w)
}
