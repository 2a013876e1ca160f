package store

import (
	"context"

	"github.com/clinicalscribe/scribe-service/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
// Drivers map driver-specific failures onto the model sentinels:
// no row -> model.ErrNotFound, unique violation -> model.ErrConflict.
type Store interface {
	Clients() Clients
	Transcripts() Transcripts
	Notes() Notes
}

type Clients interface {
	Create(ctx context.Context, c *model.Client) (*model.Client, error)
	// Get filters by both id and owner; an unowned row behaves like a missing one.
	Get(ctx context.Context, clientID, ownerID string) (*model.Client, error)
	List(ctx context.Context, ownerID string) ([]*model.Client, error)
	Update(ctx context.Context, c *model.Client) (*model.Client, error)
}

type Transcripts interface {
	Create(ctx context.Context, t *model.Transcript) (*model.Transcript, error)
	// ListRecent returns transcripts ordered by session time descending.
	ListRecent(ctx context.Context, req model.ListTranscriptsRequest) ([]*model.Transcript, error)
	Search(ctx context.Context, clientID, query string, limit int) ([]*model.Transcript, error)
}

type Notes interface {
	// Append inserts one immutable snapshot. Snapshots are never updated or
	// deleted; a document's current version is its latest snapshot.
	Append(ctx context.Context, v *model.NoteVersion) (*model.NoteVersion, error)
	Latest(ctx context.Context, noteID, ownerID string) (*model.NoteVersion, error)
	ListVersions(ctx context.Context, noteID, ownerID string) ([]*model.NoteVersion, error)
}
