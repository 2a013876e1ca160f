package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	ownerID := "u-" + uuid.New().String()
	otherOwner := "u-" + uuid.New().String()

	// Clients
	c, err := s.Clients().Create(ctx, &model.Client{
		OwnerID:     ownerID,
		Name:        "Jane Doe",
		DateOfBirth: "1988-04-12",
		Diagnosis:   []string{"F51.01"},
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if c.ClientID == "" {
		t.Fatal("CreateClient: empty client id")
	}
	if got, err := s.Clients().Get(ctx, c.ClientID, ownerID); err != nil || got.Name != "Jane Doe" {
		t.Fatalf("GetClient: got=%v err=%v", got, err)
	}
	if len(c.Diagnosis) != 1 || c.Diagnosis[0] != "F51.01" {
		t.Fatalf("CreateClient: diagnosis round trip failed: %v", c.Diagnosis)
	}

	// Ownership scoping: a different owner must see model.ErrNotFound,
	// identical to a missing row.
	if _, err := s.Clients().Get(ctx, c.ClientID, otherOwner); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetClient other owner: want ErrNotFound, got %v", err)
	}
	if _, err := s.Clients().Get(ctx, uuid.New().String(), ownerID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetClient missing: want ErrNotFound, got %v", err)
	}

	// Update
	c.ChiefComplaint = "persistent insomnia"
	if upd, err := s.Clients().Update(ctx, c); err != nil || upd.ChiefComplaint != "persistent insomnia" {
		t.Fatalf("UpdateClient: got=%v err=%v", upd, err)
	}
	if lst, err := s.Clients().List(ctx, ownerID); err != nil || len(lst) != 1 {
		t.Fatalf("ListClients: n=%d err=%v", len(lst), err)
	}

	// Transcripts: insertion order deliberately differs from session order.
	sessionBase := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, day := range []int{2, 4, 0, 3, 1} {
		_, err := s.Transcripts().Create(ctx, &model.Transcript{
			ClientID:    c.ClientID,
			SessionTime: sessionBase.AddDate(0, 0, day),
			Content:     "session content day " + string(rune('0'+day)),
		})
		if err != nil {
			t.Fatalf("CreateTranscript day %d: %v", day, err)
		}
	}

	// Duplicate (clientId, sessionTime) must surface model.ErrConflict and
	// leave exactly one row for the pair.
	_, err = s.Transcripts().Create(ctx, &model.Transcript{
		ClientID:    c.ClientID,
		SessionTime: sessionBase.AddDate(0, 0, 2),
		Content:     "duplicate attempt",
	})
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate transcript: want ErrConflict, got %v", err)
	}

	all, err := s.Transcripts().ListRecent(ctx, model.ListTranscriptsRequest{ClientID: c.ClientID})
	if err != nil || len(all) != 5 {
		t.Fatalf("ListRecent all: n=%d err=%v", len(all), err)
	}
	for i := 1; i < len(all); i++ {
		if !all[i-1].SessionTime.After(all[i].SessionTime) {
			t.Fatalf("ListRecent: not strictly descending at %d", i)
		}
	}

	// Window of 3 selects the 3 most recent regardless of insertion order.
	recent, err := s.Transcripts().ListRecent(ctx, model.ListTranscriptsRequest{ClientID: c.ClientID, Limit: 3})
	if err != nil || len(recent) != 3 {
		t.Fatalf("ListRecent limit: n=%d err=%v", len(recent), err)
	}
	want := []int{4, 3, 2}
	for i, ts := range recent {
		if !ts.SessionTime.Equal(sessionBase.AddDate(0, 0, want[i])) {
			t.Fatalf("ListRecent limit: position %d has session %v", i, ts.SessionTime)
		}
	}

	// Search is ownership-agnostic at this layer; it filters by client only.
	hits, err := s.Transcripts().Search(ctx, c.ClientID, "day 4", 10)
	if err != nil || len(hits) != 1 {
		t.Fatalf("SearchTranscripts: n=%d err=%v", len(hits), err)
	}

	// Note versioning: N appends under one id, latest wins, all retrievable.
	noteID := uuid.New().String()
	for i := 0; i < 3; i++ {
		_, err := s.Notes().Append(ctx, &model.NoteVersion{
			NoteID:  noteID,
			OwnerID: ownerID,
			Title:   "SOAP Note - Jane Doe",
			Kind:    "soap",
			Content: "version " + string(rune('0'+i)),
		})
		if err != nil {
			t.Fatalf("AppendNote %d: %v", i, err)
		}
		time.Sleep(2 * time.Millisecond) // distinct creation times
	}

	latest, err := s.Notes().Latest(ctx, noteID, ownerID)
	if err != nil || latest.Content != "version 2" {
		t.Fatalf("LatestNote: got=%v err=%v", latest, err)
	}
	versions, err := s.Notes().ListVersions(ctx, noteID, ownerID)
	if err != nil || len(versions) != 3 {
		t.Fatalf("ListVersions: n=%d err=%v", len(versions), err)
	}
	for i := 1; i < len(versions); i++ {
		if !versions[i-1].CreationTime.After(versions[i].CreationTime) {
			t.Fatalf("ListVersions: not descending at %d", i)
		}
	}

	// Notes are owner-scoped as well.
	if _, err := s.Notes().Latest(ctx, noteID, otherOwner); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("LatestNote other owner: want ErrNotFound, got %v", err)
	}
}
