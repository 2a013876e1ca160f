package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/llm"
	"github.com/clinicalscribe/scribe-service/internal/logger"
	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
	"github.com/clinicalscribe/scribe-service/internal/store/sqlite"
)

func makeStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "svc-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewWithDB(db)
}

// appendSpy wraps a store and counts note snapshot inserts.
type appendSpy struct {
	store.Store
	appends int
}

func (s *appendSpy) Notes() store.Notes { return &spyNotes{Notes: s.Store.Notes(), spy: s} }

type spyNotes struct {
	store.Notes
	spy *appendSpy
}

func (n *spyNotes) Append(ctx context.Context, v *model.NoteVersion) (*model.NoteVersion, error) {
	n.spy.appends++
	return n.Notes.Append(ctx, v)
}

func seedClient(t *testing.T, s store.Store, ownerID string) *model.Client {
	t.Helper()
	c, err := s.Clients().Create(context.Background(), &model.Client{
		OwnerID:     ownerID,
		Name:        "Jane Doe",
		DateOfBirth: "1988-04-12",
	})
	require.NoError(t, err)
	return c
}

func seedTranscripts(t *testing.T, s store.Store, clientID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.Transcripts().Create(context.Background(), &model.Transcript{
			ClientID:    clientID,
			SessionTime: time.Date(2026, 3, 1+i, 10, 0, 0, 0, time.UTC),
			Content:     "session notes",
		})
		require.NoError(t, err)
	}
}

func newNoteService(s store.Store, streamer llm.Streamer, timeout time.Duration) *NoteService {
	log := logger.New("test")
	return NewNoteService(s, auth.NewGuard(s), llm.NewDriver(streamer), note.DefaultPolicy(), timeout, log)
}

func TestGenerateNote_Success(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	seedTranscripts(t, s, c.ClientID, 2)

	svc := newNoteService(s, &llm.MockStreamer{Fragments: []llm.Fragment{
		{Text: "## Subjective\nreports better sleep\n"},
		{Text: "## Plan\ncontinue CBT-I", Done: true},
	}}, time.Minute)

	res, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-1")

	require.NoError(t, err)
	assert.NotEmpty(t, res.NoteID)
	assert.Contains(t, res.Title, "Jane Doe")
	assert.Contains(t, res.Content, "## Plan")

	persisted, err := svc.GetCurrentVersion(context.Background(), res.NoteID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, res.Content, persisted.Content)
	assert.Equal(t, NoteKindSOAP, persisted.Kind)
}

func TestGenerateNote_FreshIDPerCall(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")

	svc := newNoteService(s, &llm.MockStreamer{Fragments: []llm.Fragment{{Text: "note", Done: true}}}, time.Minute)

	a, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-1")
	require.NoError(t, err)
	b, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-1")
	require.NoError(t, err)

	assert.NotEqual(t, a.NoteID, b.NoteID, "each generation must mint a new document id")
}

func TestGenerateNote_DeniedForOtherOwner(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")

	svc := newNoteService(s, &llm.MockStreamer{Fragments: []llm.Fragment{{Text: "x", Done: true}}}, time.Minute)

	_, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-2")

	assert.True(t, note.IsNotFoundError(err), "denial must read as not-found, got %v", err)
}

func TestGenerateNote_EmptyOutputNotPersisted(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	spy := &appendSpy{Store: s}

	svc := newNoteService(spy, &llm.MockStreamer{Fragments: []llm.Fragment{{Text: "", Done: true}}}, time.Minute)

	_, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-1")

	ge, ok := llm.IsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ReasonEmptyOutput, ge.Reason)
	assert.Zero(t, spy.appends, "empty output must never reach storage")
}

func TestGenerateNote_MidStreamFailureNotPersisted(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	spy := &appendSpy{Store: s}

	svc := newNoteService(spy, &llm.MockStreamer{
		Fragments:    []llm.Fragment{{Text: "partial"}},
		MidStreamErr: context.Canceled,
	}, time.Minute)

	_, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-1")

	ge, ok := llm.IsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ReasonUpstreamFailure, ge.Reason)
	assert.Zero(t, spy.appends, "no document row may exist for a failed attempt")
}

func TestGenerateNote_TimeoutDiscardsPartialText(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")
	spy := &appendSpy{Store: s}

	svc := newNoteService(spy, &llm.MockStreamer{Fragments: []llm.Fragment{{Text: "slow", Done: true}}}, time.Nanosecond)

	_, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-1")

	ge, ok := llm.IsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ReasonTimeout, ge.Reason)
	assert.Zero(t, spy.appends)
}

func TestAppendEdit_NewVersionUnderSameID(t *testing.T) {
	s := makeStore(t)
	c := seedClient(t, s, "owner-1")

	svc := newNoteService(s, &llm.MockStreamer{Fragments: []llm.Fragment{{Text: "original", Done: true}}}, time.Minute)

	res, err := svc.GenerateNote(context.Background(), c.ClientID, "owner-1")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	edited, err := svc.AppendEdit(context.Background(), res.NoteID, "owner-1", "edited body")
	require.NoError(t, err)
	assert.Equal(t, res.NoteID, edited.NoteID)

	current, err := svc.GetCurrentVersion(context.Background(), res.NoteID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "edited body", current.Content)

	versions, err := svc.ListVersions(context.Background(), res.NoteID, "owner-1")
	require.NoError(t, err)
	assert.Len(t, versions, 2, "both snapshots must remain retrievable")
}
