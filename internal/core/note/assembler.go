package note

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clinicalscribe/scribe-service/internal/model"
)

const (
	// TruncationMarker is appended whenever transcript text is cut to fit the
	// character budget. Truncation must stay visible to the model and to any
	// reviewer reading the assembled context.
	TruncationMarker = "\n[TRANSCRIPT HISTORY TRUNCATED]"

	// NoTranscriptsPlaceholder keeps the TRANSCRIPTS section well-formed when
	// a client has no sessions on record.
	NoTranscriptsPlaceholder = "no transcripts available"

	sessionTimeFormat = "Jan 2, 2006 3:04 PM"
)

// Policy carries the assembly constants. Both values are configuration, not
// hard-coded behavior; the defaults match DefaultPolicy.
type Policy struct {
	// Window is how many of the most recent transcripts are selected.
	Window int
	// CharBudget caps the rendered transcript section, counted in runes.
	// Demographics are never truncated.
	CharBudget int
}

// DefaultPolicy returns the standard assembly policy.
func DefaultPolicy() Policy {
	return Policy{Window: 3, CharBudget: 8000}
}

// ContextBlock is the bounded textual summary of a client's demographics and
// recent transcripts fed into generation.
type ContextBlock struct {
	Demographics string
	Transcripts  string
	Truncated    bool
}

// Text renders the block as the two labeled sections the prompt expects.
func (b ContextBlock) Text() string {
	return "DEMOGRAPHICS:\n" + b.Demographics + "\n\nTRANSCRIPTS:\n" + b.Transcripts
}

// AssembleContext selects the most recent transcripts for the client, renders
// them together with the demographic fields, and enforces the character
// budget on the transcript section. It is deterministic for identical inputs.
func AssembleContext(client *model.Client, transcripts []*model.Transcript, p Policy) ContextBlock {
	if p.Window <= 0 {
		p.Window = DefaultPolicy().Window
	}
	if p.CharBudget <= 0 {
		p.CharBudget = DefaultPolicy().CharBudget
	}

	recent := make([]*model.Transcript, len(transcripts))
	copy(recent, transcripts)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].SessionTime.After(recent[j].SessionTime)
	})
	if len(recent) > p.Window {
		recent = recent[:p.Window]
	}

	block := ContextBlock{Demographics: renderDemographics(client)}

	if len(recent) == 0 {
		block.Transcripts = NoTranscriptsPlaceholder
		return block
	}

	sections := make([]string, 0, len(recent))
	for _, t := range recent {
		sections = append(sections, fmt.Sprintf("--- Session %s ---\n%s", t.SessionTime.Format(sessionTimeFormat), t.Content))
	}
	joined := strings.Join(sections, "\n\n")

	if runes := []rune(joined); len(runes) > p.CharBudget {
		joined = string(runes[:p.CharBudget]) + TruncationMarker
		block.Truncated = true
	}
	block.Transcripts = joined
	return block
}

func renderDemographics(c *model.Client) string {
	lines := []string{
		"Name: " + c.Name,
		"Date of birth: " + c.DateOfBirth,
	}
	if c.Gender != "" {
		lines = append(lines, "Gender: "+c.Gender)
	}
	if c.Insurance != "" {
		lines = append(lines, "Insurance: "+c.Insurance)
	}
	if c.ChiefComplaint != "" {
		lines = append(lines, "Chief complaint: "+c.ChiefComplaint)
	}
	if len(c.Diagnosis) > 0 {
		lines = append(lines, "Diagnosis: "+strings.Join(c.Diagnosis, "; "))
	}
	if c.Medications != "" {
		lines = append(lines, "Medications: "+c.Medications)
	}
	if c.TreatmentGoals != "" {
		lines = append(lines, "Treatment goals: "+c.TreatmentGoals)
	}
	return strings.Join(lines, "\n")
}
