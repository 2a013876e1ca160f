package auth

import "errors"

var (
	// ErrMissingAPIKey is returned when no bearer token is presented.
	ErrMissingAPIKey = errors.New("api key required")

	// ErrInvalidAPIKey is returned when the presented key cannot be resolved to an actor.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrNotFoundOrDenied is returned when a client lookup matches no row for
	// the (clientId, actorId) pair. Missing and not-owned are indistinguishable
	// so responses never confirm that a record exists.
	ErrNotFoundOrDenied = errors.New("client not found or access denied")
)
