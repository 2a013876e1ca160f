package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// ClientService hosts the intake/edit flows around client profiles. The
// generation core treats these as an external collaborator; they live here so
// the pipeline is exercisable end to end.
type ClientService struct {
	store store.Store
	guard *auth.Guard
}

func NewClientService(s store.Store, g *auth.Guard) *ClientService {
	return &ClientService{store: s, guard: g}
}

// CreateClientRequest carries the intake form fields.
type CreateClientRequest struct {
	OwnerID        string
	Name           string
	DateOfBirth    string
	Gender         string
	Insurance      string
	ChiefComplaint string
	Diagnosis      []string
	Medications    string
	TreatmentGoals string
}

func (s *ClientService) CreateClient(ctx context.Context, req CreateClientRequest) (*model.Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, note.NewValidationError("name", "name is required")
	}
	if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
		return nil, note.NewValidationError("dateOfBirth", "must be a YYYY-MM-DD date")
	}
	c := &model.Client{
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Insurance:      req.Insurance,
		ChiefComplaint: req.ChiefComplaint,
		Diagnosis:      req.Diagnosis,
		Medications:    req.Medications,
		TreatmentGoals: req.TreatmentGoals,
	}
	out, err := s.store.Clients().Create(ctx, c)
	if err != nil {
		return nil, note.NewStorageError("clients.create", err)
	}
	return out, nil
}

func (s *ClientService) GetClient(ctx context.Context, clientID, actorID string) (*model.Client, error) {
	c, err := s.guard.ResolveClient(ctx, clientID, actorID)
	if err != nil {
		return nil, mapGuardErr(err)
	}
	return c, nil
}

func (s *ClientService) ListClients(ctx context.Context, actorID string) ([]*model.Client, error) {
	out, err := s.store.Clients().List(ctx, actorID)
	if err != nil {
		return nil, note.NewStorageError("clients.list", err)
	}
	return out, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, clientID, actorID string, req CreateClientRequest) (*model.Client, error) {
	c, err := s.guard.ResolveClient(ctx, clientID, actorID)
	if err != nil {
		return nil, mapGuardErr(err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, note.NewValidationError("name", "name is required")
	}
	if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
		return nil, note.NewValidationError("dateOfBirth", "must be a YYYY-MM-DD date")
	}
	c.Name = req.Name
	c.DateOfBirth = req.DateOfBirth
	c.Gender = req.Gender
	c.Insurance = req.Insurance
	c.ChiefComplaint = req.ChiefComplaint
	c.Diagnosis = req.Diagnosis
	c.Medications = req.Medications
	c.TreatmentGoals = req.TreatmentGoals
	out, err := s.store.Clients().Update(ctx, c)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, note.NewNotFoundError("client")
		}
		return nil, note.NewStorageError("clients.update", err)
	}
	return out, nil
}

// mapGuardErr folds every guard failure into the non-committal NotFoundError.
func mapGuardErr(err error) error {
	if errors.Is(err, auth.ErrNotFoundOrDenied) {
		return note.NewNotFoundError("client")
	}
	return note.NewStorageError("clients.get", err)
}
