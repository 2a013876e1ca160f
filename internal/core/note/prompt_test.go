package note

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_Stable(t *testing.T) {
	block := ContextBlock{Demographics: "Name: Jane Doe", Transcripts: "--- Session ---\nhello"}

	a := BuildPrompt(block, "Jane Doe")
	b := BuildPrompt(block, "Jane Doe")

	assert.Equal(t, a, b, "same inputs must produce byte-identical prompts")
}

func TestBuildPrompt_SectionsAndName(t *testing.T) {
	block := ContextBlock{Demographics: "Name: Jane Doe", Transcripts: NoTranscriptsPlaceholder}

	p := BuildPrompt(block, "Jane Doe")

	for _, heading := range []string{"## Subjective", "## Objective", "## Assessment", "## Plan"} {
		assert.Contains(t, p.Instructions, heading)
	}
	assert.Contains(t, p.Instructions, `"Jane Doe"`)
	assert.True(t, strings.HasPrefix(p.Content, "DEMOGRAPHICS:\n"))
	assert.Contains(t, p.Content, "\n\nTRANSCRIPTS:\n")
}
