package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/omkarsat/lumi-agent/internal/agent"
	"github.com/omkarsat/lumi-agent/internal/api/response"
	"github.com/omkarsat/lumi-agent/internal/extract"
)

// ChatHandler handles conversational requests
type ChatHandler struct {
	orchestrator *agent.Orchestrator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator *agent.Orchestrator) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response     string `json:"response"`
	SessionID    string `json:"session_id"`
	RecordIDHint string `json:"record_id_hint,omitempty"`
}

// Chat runs one conversation turn and returns the agent's reply
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		response.BadRequest(w, "message is required")
		return
	}

	// Callers without a session get one assigned; they echo it back on
	// later turns to keep conversational context.
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	reply := h.orchestrator.ProcessMessage(r.Context(), req.SessionID, req.Message)

	response.OK(w, chatResponse{
		Response:     reply,
		SessionID:    req.SessionID,
		RecordIDHint: extract.RecordID(reply),
	})
}
