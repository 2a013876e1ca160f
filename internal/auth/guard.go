package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// Guard resolves a (clientId, actorId) pair to an authorized client record.
// Every use case that touches a client goes through ResolveClient first.
type Guard struct {
	clients store.Clients
}

func NewGuard(s store.Store) *Guard {
	return &Guard{clients: s.Clients()}
}

// ResolveClient returns the client when it exists and belongs to the actor.
// Any other outcome, including a malformed id, collapses to
// ErrNotFoundOrDenied.
func (g *Guard) ResolveClient(ctx context.Context, clientID, actorID string) (*model.Client, error) {
	if actorID == "" {
		return nil, ErrNotFoundOrDenied
	}
	if _, err := uuid.Parse(clientID); err != nil {
		return nil, ErrNotFoundOrDenied
	}
	c, err := g.clients.Get(ctx, clientID, actorID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrNotFoundOrDenied
		}
		return nil, err
	}
	return c, nil
}
