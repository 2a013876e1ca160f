package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/logger"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

func newTranscriptService(s store.Store) *TranscriptService {
	return NewTranscriptService(s, auth.NewGuard(s), logger.New("test"))
}

func TestIngest_Success(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	svc := newTranscriptService(s)

	out, err := svc.Ingest(context.Background(), IngestRequest{
		ClientID:    c.ClientID,
		ActorID:     "owner-1",
		SessionTime: time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
		Content:     "Client described improved mood.",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, out.TranscriptID)
	assert.Equal(t, c.ClientID, out.ClientID)
}

func TestIngest_DuplicateSession(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	svc := newTranscriptService(s)

	session := time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC)
	req := IngestRequest{ClientID: c.ClientID, ActorID: "owner-1", SessionTime: session, Content: "first"}

	_, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	req.Content = "second attempt at the same time"
	_, err = svc.Ingest(context.Background(), req)

	assert.True(t, note.IsConflictError(err), "want conflict, got %v", err)

	// Exactly one row remains for the pair.
	all, err := svc.ListTranscripts(context.Background(), c.ClientID, "owner-1", 0, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "first", all[0].Content)
}

func TestIngest_Validation(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	svc := newTranscriptService(s)

	_, err := svc.Ingest(context.Background(), IngestRequest{
		ClientID:    c.ClientID,
		ActorID:     "owner-1",
		SessionTime: time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
		Content:     "   ",
	})
	assert.True(t, note.IsValidationError(err), "blank content must fail validation, got %v", err)

	_, err = svc.Ingest(context.Background(), IngestRequest{
		ClientID: c.ClientID,
		ActorID:  "owner-1",
		Content:  "valid content",
	})
	assert.True(t, note.IsValidationError(err), "zero session time must fail validation, got %v", err)
}

func TestIngest_UnownedClientDenied(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	svc := newTranscriptService(s)

	_, err := svc.Ingest(context.Background(), IngestRequest{
		ClientID:    c.ClientID,
		ActorID:     "intruder",
		SessionTime: time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
		Content:     "should never be written",
	})

	assert.True(t, note.IsNotFoundError(err), "denial must read as not-found, got %v", err)
}

func TestSearchTranscripts_OwnershipScoped(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	svc := newTranscriptService(s)

	_, err := svc.Ingest(context.Background(), IngestRequest{
		ClientID:    c.ClientID,
		ActorID:     "owner-1",
		SessionTime: time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
		Content:     "Discussed sleep hygiene techniques.",
	})
	require.NoError(t, err)

	hits, err := svc.SearchTranscripts(context.Background(), c.ClientID, "owner-1", "sleep hygiene", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	_, err = svc.SearchTranscripts(context.Background(), c.ClientID, "intruder", "sleep", 10)
	assert.True(t, note.IsNotFoundError(err))
}
