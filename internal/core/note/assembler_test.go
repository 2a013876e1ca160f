package note

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicalscribe/scribe-service/internal/model"
)

func testClient() *model.Client {
	return &model.Client{
		ClientID:       "c-1",
		OwnerID:        "u-1",
		Name:           "Jane Doe",
		DateOfBirth:    "1988-04-12",
		Gender:         "female",
		Insurance:      "Acme Health",
		ChiefComplaint: "persistent insomnia",
		Diagnosis:      []string{"F51.01 Insomnia disorder", "F41.1 GAD"},
		Medications:    "sertraline 50mg daily",
		TreatmentGoals: "restore regular sleep schedule",
	}
}

func transcriptAt(day int, content string) *model.Transcript {
	return &model.Transcript{
		TranscriptID: "t",
		ClientID:     "c-1",
		SessionTime:  time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
		Content:      content,
	}
}

func TestAssembleContext_SelectsMostRecentWindow(t *testing.T) {
	// Five sessions inserted out of order; window of 3 must pick days 9, 7, 5
	// in descending order regardless of slice order.
	ts := []*model.Transcript{
		transcriptAt(3, "session three"),
		transcriptAt(9, "session nine"),
		transcriptAt(1, "session one"),
		transcriptAt(5, "session five"),
		transcriptAt(7, "session seven"),
	}

	block := AssembleContext(testClient(), ts, Policy{Window: 3, CharBudget: 8000})

	require.False(t, block.Truncated)
	assert.Contains(t, block.Transcripts, "session nine")
	assert.Contains(t, block.Transcripts, "session seven")
	assert.Contains(t, block.Transcripts, "session five")
	assert.NotContains(t, block.Transcripts, "session three")
	assert.NotContains(t, block.Transcripts, "session one")

	nine := strings.Index(block.Transcripts, "session nine")
	seven := strings.Index(block.Transcripts, "session seven")
	five := strings.Index(block.Transcripts, "session five")
	assert.True(t, nine < seven && seven < five, "sessions must be ordered newest first")
}

func TestAssembleContext_TruncatesAtBudgetWithMarker(t *testing.T) {
	// Roughly 20k characters across three transcripts against an 8k budget.
	ts := []*model.Transcript{
		transcriptAt(1, strings.Repeat("a", 7000)),
		transcriptAt(2, strings.Repeat("b", 7000)),
		transcriptAt(3, strings.Repeat("c", 6000)),
	}

	block := AssembleContext(testClient(), ts, Policy{Window: 3, CharBudget: 8000})

	require.True(t, block.Truncated)
	require.True(t, strings.HasSuffix(block.Transcripts, TruncationMarker))
	body := strings.TrimSuffix(block.Transcripts, TruncationMarker)
	assert.Equal(t, 8000, len([]rune(body)), "transcript text must be exactly the budget-sized prefix")
}

func TestAssembleContext_NoSilentTruncation(t *testing.T) {
	ts := []*model.Transcript{transcriptAt(1, strings.Repeat("x", 100))}

	block := AssembleContext(testClient(), ts, Policy{Window: 3, CharBudget: 8000})

	assert.False(t, block.Truncated)
	assert.NotContains(t, block.Transcripts, TruncationMarker)
}

func TestAssembleContext_RuneBoundaryTruncation(t *testing.T) {
	// Multi-byte content must not be split mid-rune.
	ts := []*model.Transcript{transcriptAt(1, strings.Repeat("心", 9000))}

	block := AssembleContext(testClient(), ts, Policy{Window: 1, CharBudget: 8000})

	require.True(t, block.Truncated)
	body := strings.TrimSuffix(block.Transcripts, TruncationMarker)
	assert.True(t, strings.HasPrefix(body, "--- Session"))
	assert.Equal(t, 8000, len([]rune(body)))
}

func TestAssembleContext_PlaceholderWhenEmpty(t *testing.T) {
	block := AssembleContext(testClient(), nil, DefaultPolicy())

	assert.Equal(t, NoTranscriptsPlaceholder, block.Transcripts)
	assert.False(t, block.Truncated)
}

func TestAssembleContext_DemographicsNeverTruncated(t *testing.T) {
	c := testClient()
	ts := []*model.Transcript{transcriptAt(1, strings.Repeat("z", 30000))}

	block := AssembleContext(c, ts, Policy{Window: 3, CharBudget: 100})

	assert.Contains(t, block.Demographics, "Jane Doe")
	assert.Contains(t, block.Demographics, "F51.01 Insomnia disorder; F41.1 GAD")
	assert.Contains(t, block.Demographics, "sertraline 50mg daily")
}

func TestAssembleContext_Deterministic(t *testing.T) {
	ts := []*model.Transcript{
		transcriptAt(1, "first"),
		transcriptAt(2, "second"),
	}

	a := AssembleContext(testClient(), ts, DefaultPolicy())
	b := AssembleContext(testClient(), ts, DefaultPolicy())

	assert.Equal(t, a.Text(), b.Text(), "identical inputs must yield byte-identical output")
}

func TestAssembleContext_SessionTimestampRendered(t *testing.T) {
	ts := []*model.Transcript{transcriptAt(9, "late session")}

	block := AssembleContext(testClient(), ts, DefaultPolicy())

	assert.Contains(t, block.Transcripts, "--- Session Mar 9, 2026 10:00 AM ---")
}
