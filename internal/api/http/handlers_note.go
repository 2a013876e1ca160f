package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinicalscribe/scribe-service/internal/api/respond"
	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/services"
)

// NoteHandler is a thin HTTP transport over NoteService.
type NoteHandler struct {
	svc *services.NoteService
}

func NewNoteHandler(svc *services.NoteService) *NoteHandler { return &NoteHandler{svc: svc} }

// GenerateNote POST /api/clients/{clientId}/notes
func (h *NoteHandler) GenerateNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	out, err := h.svc.GenerateNote(r.Context(), mux.Vars(r)["clientId"], actor.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetNote GET /api/notes/{noteId}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	out, err := h.svc.GetCurrentVersion(r.Context(), mux.Vars(r)["noteId"], actor.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListVersions GET /api/notes/{noteId}/versions
func (h *NoteHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	out, err := h.svc.ListVersions(r.Context(), mux.Vars(r)["noteId"], actor.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"versions": out, "count": len(out)})
}

// AppendVersion POST /api/notes/{noteId}/versions
func (h *NoteHandler) AppendVersion(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.AppendEdit(r.Context(), mux.Vars(r)["noteId"], actor.ActorID, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}
