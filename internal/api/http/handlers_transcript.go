package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/clinicalscribe/scribe-service/internal/api/respond"
	"github.com/clinicalscribe/scribe-service/internal/api/validate"
	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/services"
)

const defaultTranscriptListLimit = 20

// TranscriptHandler is a thin HTTP transport over TranscriptService.
type TranscriptHandler struct {
	svc *services.TranscriptService
}

func NewTranscriptHandler(svc *services.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{svc: svc}
}

// CreateTranscript POST /api/clients/{clientId}/transcripts
func (h *TranscriptHandler) CreateTranscript(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		SessionTime time.Time `json:"sessionTime"`
		Content     string    `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateTranscript(req.SessionTime, req.Content); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Ingest(r.Context(), services.IngestRequest{
		ClientID:    mux.Vars(r)["clientId"],
		ActorID:     actor.ActorID,
		SessionTime: req.SessionTime,
		Content:     req.Content,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListTranscripts GET /api/clients/{clientId}/transcripts?limit=&before=
func (h *TranscriptHandler) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	limit := defaultTranscriptListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}
	var before *time.Time
	if v := r.URL.Query().Get("before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.WriteBadRequest(w, "before must be an RFC3339 timestamp")
			return
		}
		before = &t
	}
	out, err := h.svc.ListTranscripts(r.Context(), mux.Vars(r)["clientId"], actor.ActorID, limit, before)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"transcripts": out, "count": len(out)})
}

// SearchTranscripts GET /api/clients/{clientId}/transcripts/search?q=
func (h *TranscriptHandler) SearchTranscripts(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	q := r.URL.Query().Get("q")
	out, err := h.svc.SearchTranscripts(r.Context(), mux.Vars(r)["clientId"], actor.ActorID, q, defaultTranscriptListLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"transcripts": out, "count": len(out)})
}
