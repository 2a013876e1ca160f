package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/metrics"
	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// TranscriptService ingests and lists session transcripts.
type TranscriptService struct {
	store store.Store
	guard *auth.Guard
	log   zerolog.Logger
}

func NewTranscriptService(s store.Store, g *auth.Guard, log zerolog.Logger) *TranscriptService {
	return &TranscriptService{store: s, guard: g, log: log}
}

// IngestRequest carries one new session transcript.
type IngestRequest struct {
	ClientID    string
	ActorID     string
	SessionTime time.Time
	Content     string
}

// Ingest validates the transcript, resolves ownership, and inserts the row.
// The (clientId, sessionTime) uniqueness invariant is enforced by the storage
// engine; a violation surfaces as a ConflictError so callers can present a
// specific message instead of a generic storage failure.
func (s *TranscriptService) Ingest(ctx context.Context, req IngestRequest) (*model.Transcript, error) {
	if _, err := s.guard.ResolveClient(ctx, req.ClientID, req.ActorID); err != nil {
		metrics.IngestOutcomes.WithLabelValues("denied").Inc()
		return nil, mapGuardErr(err)
	}
	if strings.TrimSpace(req.Content) == "" {
		metrics.IngestOutcomes.WithLabelValues("invalid").Inc()
		return nil, note.NewValidationError("content", "content must not be empty")
	}
	if req.SessionTime.IsZero() {
		metrics.IngestOutcomes.WithLabelValues("invalid").Inc()
		return nil, note.NewValidationError("sessionTime", "session time is required")
	}

	out, err := s.store.Transcripts().Create(ctx, &model.Transcript{
		ClientID:    req.ClientID,
		SessionTime: req.SessionTime,
		Content:     req.Content,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			metrics.IngestOutcomes.WithLabelValues("duplicate").Inc()
			return nil, note.NewConflictError("sessionTime", "a transcript at this exact time already exists")
		}
		metrics.IngestOutcomes.WithLabelValues("storage_error").Inc()
		s.log.Error().Err(err).Str("client_id", req.ClientID).Str("op", "transcripts.create").Msg("transcript insert failed")
		return nil, note.NewStorageError("transcripts.create", err)
	}
	metrics.IngestOutcomes.WithLabelValues("success").Inc()
	return out, nil
}

func (s *TranscriptService) ListTranscripts(ctx context.Context, clientID, actorID string, limit int, before *time.Time) ([]*model.Transcript, error) {
	if _, err := s.guard.ResolveClient(ctx, clientID, actorID); err != nil {
		return nil, mapGuardErr(err)
	}
	out, err := s.store.Transcripts().ListRecent(ctx, model.ListTranscriptsRequest{ClientID: clientID, Limit: limit, Before: before})
	if err != nil {
		return nil, note.NewStorageError("transcripts.list", err)
	}
	return out, nil
}

func (s *TranscriptService) SearchTranscripts(ctx context.Context, clientID, actorID, query string, limit int) ([]*model.Transcript, error) {
	if _, err := s.guard.ResolveClient(ctx, clientID, actorID); err != nil {
		return nil, mapGuardErr(err)
	}
	if strings.TrimSpace(query) == "" {
		return nil, note.NewValidationError("q", "search query must not be empty")
	}
	out, err := s.store.Transcripts().Search(ctx, clientID, query, limit)
	if err != nil {
		return nil, note.NewStorageError("transcripts.search", err)
	}
	return out, nil
}
