package model

import "time"

// Client is a tenant-owned demographic profile. Every read and write is
// scoped by (ClientID, OwnerID).
type Client struct {
	ClientID       string    `json:"clientId"`
	OwnerID        string    `json:"ownerId"`
	Name           string    `json:"name"`
	DateOfBirth    string    `json:"dateOfBirth"` // YYYY-MM-DD
	Gender         string    `json:"gender,omitempty"`
	Insurance      string    `json:"insurance,omitempty"`
	ChiefComplaint string    `json:"chiefComplaint,omitempty"`
	Diagnosis      []string  `json:"diagnosis,omitempty"`
	Medications    string    `json:"medications,omitempty"`
	TreatmentGoals string    `json:"treatmentGoals,omitempty"`
	CreationTime   time.Time `json:"creationTime"`
	UpdateTime     time.Time `json:"updateTime"`
}

// Transcript is one clinical session record. Immutable once written;
// (ClientID, SessionTime) is unique.
type Transcript struct {
	TranscriptID string    `json:"transcriptId"`
	ClientID     string    `json:"clientId"`
	SessionTime  time.Time `json:"sessionTime"`
	Content      string    `json:"content"`
	CreationTime time.Time `json:"creationTime"`
}

// NoteVersion is one immutable snapshot of a generated document. All
// snapshots sharing a NoteID form the document's version history; the
// current version is the one with the greatest CreationTime.
type NoteVersion struct {
	NoteID       string    `json:"noteId"`
	Title        string    `json:"title"`
	Kind         string    `json:"kind"`
	Content      string    `json:"content"`
	OwnerID      string    `json:"ownerId"`
	CreationTime time.Time `json:"creationTime"`
}

// ListTranscriptsRequest captures filters used when listing transcripts.
type ListTranscriptsRequest struct {
	ClientID string
	Limit    int
	Before   *time.Time
}
