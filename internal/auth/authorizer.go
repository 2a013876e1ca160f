package auth

import (
	"context"
	"strings"
)

// ActorInfo describes an authenticated clinician account.
type ActorInfo struct {
	ActorID string `json:"actor_id"`
	KeyName string `json:"key_name"`
}

// Authorizer validates API keys. Session mechanics live outside this service;
// implementations only need to map a presented key to an actor.
type Authorizer interface {
	Authorize(ctx context.Context, apiKey string) (*ActorInfo, error)
}

// DevAuthorizer accepts keys of the form "dev-<actorId>". It exists for local
// development and tests; production deployments plug in a real key service.
type DevAuthorizer struct{}

func NewDevAuthorizer() *DevAuthorizer { return &DevAuthorizer{} }

func (a *DevAuthorizer) Authorize(_ context.Context, apiKey string) (*ActorInfo, error) {
	id, ok := strings.CutPrefix(apiKey, "dev-")
	if !ok || id == "" {
		return nil, ErrInvalidAPIKey
	}
	return &ActorInfo{ActorID: id, KeyName: "dev"}, nil
}

type actorCtxKey struct{}

// WithActor stores the authenticated actor on the request context.
func WithActor(ctx context.Context, info *ActorInfo) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, info)
}

// ActorFrom retrieves the authenticated actor from the context, if any.
func ActorFrom(ctx context.Context) (*ActorInfo, bool) {
	info, ok := ctx.Value(actorCtxKey{}).(*ActorInfo)
	return info, ok
}
