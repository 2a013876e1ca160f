package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinicalscribe/scribe-service/internal/api/respond"
	"github.com/clinicalscribe/scribe-service/internal/api/validate"
	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/services"
)

// ClientHandler is a thin HTTP transport over ClientService.
type ClientHandler struct {
	svc *services.ClientService
}

func NewClientHandler(svc *services.ClientService) *ClientHandler { return &ClientHandler{svc: svc} }

type clientRequestBody struct {
	Name           string   `json:"name"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Gender         string   `json:"gender"`
	Insurance      string   `json:"insurance"`
	ChiefComplaint string   `json:"chiefComplaint"`
	Diagnosis      []string `json:"diagnosis"`
	Medications    string   `json:"medications"`
	TreatmentGoals string   `json:"treatmentGoals"`
}

// CreateClient POST /api/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req clientRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateClient(req.Name, req.DateOfBirth, req.Diagnosis); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreateClient(r.Context(), services.CreateClientRequest{
		OwnerID:        actor.ActorID,
		Name:           req.Name,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Insurance:      req.Insurance,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		Medications:    req.Medications,
		TreatmentGoals: req.TreatmentGoals,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListClients GET /api/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	out, err := h.svc.ListClients(r.Context(), actor.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"clients": out, "count": len(out)})
}

// GetClient GET /api/clients/{clientId}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	out, err := h.svc.GetClient(r.Context(), mux.Vars(r)["clientId"], actor.ActorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateClient PUT /api/clients/{clientId}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req clientRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateClient(req.Name, req.DateOfBirth, req.Diagnosis); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.UpdateClient(r.Context(), mux.Vars(r)["clientId"], actor.ActorID, services.CreateClientRequest{
		Name:           req.Name,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Insurance:      req.Insurance,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		Medications:    req.Medications,
		TreatmentGoals: req.TreatmentGoals,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
