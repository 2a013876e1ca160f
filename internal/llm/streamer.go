// Package llm drives token-streaming note generation against a language
// model provider and classifies every outcome into the generation error
// taxonomy.
package llm

import "context"

// Fragment is one streamed piece of model output.
type Fragment struct {
	Text string
	// Done marks the provider's end-of-stream signal.
	Done bool
}

// FragmentSource yields fragments in arrival order until io.EOF or a
// transport error. Close releases the underlying stream.
type FragmentSource interface {
	Next() (Fragment, error)
	Close() error
}

// Streamer starts a generation call and hands back its fragment source.
// Implementations must honor ctx cancellation while streaming.
type Streamer interface {
	StreamGenerate(ctx context.Context, instructions, content string) (FragmentSource, error)
}
