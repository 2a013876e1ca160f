package llm

import (
	"errors"
	"fmt"
)

// Reason classifies a failed generation call.
type Reason string

const (
	// ReasonEmptyOutput: the stream completed but accumulated zero characters.
	// An empty document is never a success.
	ReasonEmptyOutput Reason = "empty_output"
	// ReasonUpstreamFailure: transport or model failure before stream exhaustion.
	ReasonUpstreamFailure Reason = "upstream_failure"
	// ReasonTimeout: the caller-supplied deadline elapsed; partial text is discarded.
	ReasonTimeout Reason = "timeout"
)

// GenerationError is the terminal error for a generation request. No retries
// happen inside the driver; callers may re-run the whole pipeline.
type GenerationError struct {
	Reason Reason
	Err    error
}

func (e GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed (%s)", e.Reason)
}

func (e GenerationError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err is a GenerationError and returns it.
func IsGenerationError(err error) (GenerationError, bool) {
	var ge GenerationError
	ok := errors.As(err, &ge)
	return ge, ok
}
