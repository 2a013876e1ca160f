package llm

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Driver consumes a Streamer to full exhaustion and returns the accumulated
// text. It is synchronous end to end: no partial result ever leaves it.
type Driver struct {
	streamer Streamer
}

func NewDriver(s Streamer) *Driver { return &Driver{streamer: s} }

// Generate blocks until the full note is available or the call fails.
// Outcomes: the accumulated string, or GenerationError with reason
// EmptyOutput, UpstreamFailure, or Timeout.
func (d *Driver) Generate(ctx context.Context, instructions, content string) (string, error) {
	src, err := d.streamer.StreamGenerate(ctx, instructions, content)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer func() { _ = src.Close() }()

	var b strings.Builder
	for {
		frag, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", classify(ctx, err)
		}
		b.WriteString(frag.Text)
		if frag.Done {
			break
		}
	}

	if b.Len() == 0 {
		return "", GenerationError{Reason: ReasonEmptyOutput}
	}
	return b.String(), nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return GenerationError{Reason: ReasonTimeout, Err: err}
	}
	return GenerationError{Reason: ReasonUpstreamFailure, Err: err}
}
