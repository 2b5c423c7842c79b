package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/omkarsat/lumi-agent/internal/api/response"
	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/service"
)

// RecordHandler exposes direct support record lookups
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// Get returns a support record by its 8-character ID
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(chi.URLParam(r, "recordID"))
	if id == "" {
		response.BadRequest(w, "missing record ID")
		return
	}

	rec, err := h.records.Retrieve(r.Context(), id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		response.NotFound(w, "record not found: "+id)
		return
	}
	if err != nil {
		response.InternalError(w, "failed to retrieve record")
		return
	}

	response.OK(w, rec)
}
