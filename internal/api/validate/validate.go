package validate

import (
	"fmt"
	"time"
)

// NonEmpty rejects empty required fields.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// MaxLen bounds an optional field's length in bytes.
func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Date validates a YYYY-MM-DD value.
func Date(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return fmt.Errorf("%s must be a YYYY-MM-DD date", field)
	}
	return nil
}

// -------- Request specific helpers ----------

// CreateClient validates the intake form fields.
func CreateClient(name, dateOfBirth string, diagnosis []string) error {
	if err := NonEmpty("name", name); err != nil {
		return err
	}
	if err := MaxLen("name", name, 200); err != nil {
		return err
	}
	if err := Date("dateOfBirth", dateOfBirth); err != nil {
		return err
	}
	for i, d := range diagnosis {
		if d == "" {
			return fmt.Errorf("diagnosis[%d] must not be empty", i)
		}
	}
	return nil
}

// CreateTranscript validates an ingestion request body.
func CreateTranscript(sessionTime time.Time, content string) error {
	if sessionTime.IsZero() {
		return fmt.Errorf("sessionTime is required")
	}
	if err := NonEmpty("content", content); err != nil {
		return err
	}
	return nil
}
