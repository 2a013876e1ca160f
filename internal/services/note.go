package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/llm"
	"github.com/clinicalscribe/scribe-service/internal/metrics"
	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// NoteKindSOAP tags snapshots produced by the generation pipeline. The kind is
// opaque to storage; renderers key off it.
const NoteKindSOAP = "soap"

// NoteService runs the clinical document generation pipeline and serves the
// resulting version history.
type NoteService struct {
	store   store.Store
	guard   *auth.Guard
	driver  *llm.Driver
	policy  note.Policy
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

func NewNoteService(s store.Store, g *auth.Guard, d *llm.Driver, policy note.Policy, timeout time.Duration, log zerolog.Logger) *NoteService {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &NoteService{store: s, guard: g, driver: d, policy: policy, timeout: timeout, log: log, now: time.Now}
}

// GenerateNoteResult is the caller-facing success contract.
type GenerateNoteResult struct {
	NoteID  string `json:"noteId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GenerateNote executes the pipeline strictly in order: access guard, context
// assembly, prompt build, streamed generation, snapshot append. Each call
// mints a fresh note id; concurrent calls for the same client are independent.
func (s *NoteService) GenerateNote(ctx context.Context, clientID, actorID string) (*GenerateNoteResult, error) {
	started := s.now()

	client, err := s.guard.ResolveClient(ctx, clientID, actorID)
	if err != nil {
		metrics.GenerationOutcomes.WithLabelValues("denied").Inc()
		return nil, mapGuardErr(err)
	}

	transcripts, err := s.store.Transcripts().ListRecent(ctx, model.ListTranscriptsRequest{
		ClientID: clientID,
		Limit:    s.policy.Window,
	})
	if err != nil {
		metrics.GenerationOutcomes.WithLabelValues("storage_error").Inc()
		return nil, note.NewStorageError("transcripts.list", err)
	}

	block := note.AssembleContext(client, transcripts, s.policy)
	if block.Truncated {
		s.log.Info().Str("client_id", clientID).Int("char_budget", s.policy.CharBudget).Msg("transcript context truncated")
	}
	prompt := note.BuildPrompt(block, client.Name)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	content, err := s.driver.Generate(genCtx, prompt.Instructions, prompt.Content)
	if err != nil {
		if ge, ok := llm.IsGenerationError(err); ok {
			metrics.GenerationOutcomes.WithLabelValues(string(ge.Reason)).Inc()
			s.log.Warn().Err(err).Str("client_id", clientID).Str("reason", string(ge.Reason)).Msg("generation failed")
			return nil, err
		}
		metrics.GenerationOutcomes.WithLabelValues("upstream_failure").Inc()
		return nil, llm.GenerationError{Reason: llm.ReasonUpstreamFailure, Err: err}
	}

	v := &model.NoteVersion{
		NoteID:  uuid.New().String(),
		Title:   "SOAP Note - " + client.Name + " - " + s.now().Format("Jan 2, 2006"),
		Kind:    NoteKindSOAP,
		Content: content,
		OwnerID: actorID,
	}
	saved, err := s.store.Notes().Append(ctx, v)
	if err != nil {
		metrics.GenerationOutcomes.WithLabelValues("storage_error").Inc()
		s.log.Error().Err(err).Str("client_id", clientID).Str("op", "notes.append").Msg("note persist failed")
		return nil, note.NewStorageError("notes.append", err)
	}

	metrics.GenerationOutcomes.WithLabelValues("success").Inc()
	metrics.GenerationDuration.Observe(s.now().Sub(started).Seconds())
	return &GenerateNoteResult{NoteID: saved.NoteID, Title: saved.Title, Content: saved.Content}, nil
}

// GetCurrentVersion returns the snapshot with the greatest creation time.
func (s *NoteService) GetCurrentVersion(ctx context.Context, noteID, actorID string) (*model.NoteVersion, error) {
	v, err := s.store.Notes().Latest(ctx, noteID, actorID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, note.NewNotFoundError("note")
		}
		return nil, note.NewStorageError("notes.latest", err)
	}
	return v, nil
}

// ListVersions returns every snapshot for the note, newest first.
func (s *NoteService) ListVersions(ctx context.Context, noteID, actorID string) ([]*model.NoteVersion, error) {
	out, err := s.store.Notes().ListVersions(ctx, noteID, actorID)
	if err != nil {
		return nil, note.NewStorageError("notes.versions", err)
	}
	if len(out) == 0 {
		return nil, note.NewNotFoundError("note")
	}
	return out, nil
}

// AppendEdit appends an edited snapshot under an existing note id. The
// previous snapshot is never mutated.
func (s *NoteService) AppendEdit(ctx context.Context, noteID, actorID, content string) (*model.NoteVersion, error) {
	if content == "" {
		return nil, note.NewValidationError("content", "content must not be empty")
	}
	current, err := s.GetCurrentVersion(ctx, noteID, actorID)
	if err != nil {
		return nil, err
	}
	v := &model.NoteVersion{
		NoteID:  noteID,
		Title:   current.Title,
		Kind:    current.Kind,
		Content: content,
		OwnerID: actorID,
	}
	saved, err := s.store.Notes().Append(ctx, v)
	if err != nil {
		return nil, note.NewStorageError("notes.append", err)
	}
	return saved, nil
}
