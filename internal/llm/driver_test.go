package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_AccumulatesFragmentsInOrder(t *testing.T) {
	d := NewDriver(&MockStreamer{Fragments: []Fragment{
		{Text: "## Subjective\n"},
		{Text: "Client reports "},
		{Text: "improved sleep.", Done: true},
	}})

	out, err := d.Generate(context.Background(), "instructions", "content")

	require.NoError(t, err)
	assert.Equal(t, "## Subjective\nClient reports improved sleep.", out)
}

func TestDriver_EmptyStreamIsEmptyOutput(t *testing.T) {
	d := NewDriver(&MockStreamer{Fragments: []Fragment{{Text: "", Done: true}}})

	_, err := d.Generate(context.Background(), "i", "c")

	ge, ok := IsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonEmptyOutput, ge.Reason)
}

func TestDriver_MidStreamFailureIsUpstream(t *testing.T) {
	d := NewDriver(&MockStreamer{
		Fragments:    []Fragment{{Text: "partial "}},
		MidStreamErr: errors.New("connection reset"),
	})

	out, err := d.Generate(context.Background(), "i", "c")

	assert.Empty(t, out, "partial text must not be surfaced")
	ge, ok := IsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUpstreamFailure, ge.Reason)
}

func TestDriver_StartFailureIsUpstream(t *testing.T) {
	d := NewDriver(&MockStreamer{StartErr: errors.New("dial tcp: refused")})

	_, err := d.Generate(context.Background(), "i", "c")

	ge, ok := IsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUpstreamFailure, ge.Reason)
}

func TestDriver_DeadlineIsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	d := NewDriver(&MockStreamer{Fragments: []Fragment{{Text: "late", Done: true}}})
	out, err := d.Generate(ctx, "i", "c")

	assert.Empty(t, out)
	ge, ok := IsGenerationError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonTimeout, ge.Reason)
}
