package llm

import (
	"context"
	"io"
)

// MockStreamer replays scripted fragments; used by service and handler tests.
type MockStreamer struct {
	Fragments []Fragment
	// StartErr fails the call before any fragment is produced.
	StartErr error
	// MidStreamErr is returned after the scripted fragments are exhausted
	// instead of end-of-stream.
	MidStreamErr error
}

func (m *MockStreamer) StreamGenerate(ctx context.Context, instructions, content string) (FragmentSource, error) {
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	frags := make([]Fragment, len(m.Fragments))
	copy(frags, m.Fragments)
	return &mockSource{ctx: ctx, frags: frags, errAfter: m.MidStreamErr}, nil
}

type mockSource struct {
	ctx      context.Context
	frags    []Fragment
	errAfter error
	pos      int
}

func (m *mockSource) Next() (Fragment, error) {
	if err := m.ctx.Err(); err != nil {
		return Fragment{}, err
	}
	if m.pos < len(m.frags) {
		f := m.frags[m.pos]
		m.pos++
		return f, nil
	}
	if m.errAfter != nil {
		return Fragment{}, m.errAfter
	}
	return Fragment{}, io.EOF
}

func (m *mockSource) Close() error { return nil }
