package models

import (
	"fmt"

	"github.com/example/gateforge/internal/calendar"
)

// Phase is a named, date-ranged block of the study plan
type Phase struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Start       calendar.Date `json:"start"`
	End         calendar.Date `json:"end"`
	IsUndecided bool          `json:"isUndecided,omitempty"`
}

// IsDated reports whether the phase takes part in interval lookups
func (p Phase) IsDated() bool {
	return !p.IsUndecided && !p.Start.IsZero() && !p.End.IsZero()
}

// Days returns the inclusive length of the phase in days
func (p Phase) Days() int {
	if !p.IsDated() {
		return 0
	}
	return p.Start.DaysUntil(p.End) + 1
}

// ProgressField names one of the four per-phase checkboxes
type ProgressField string

const (
	FieldCompleted ProgressField = "completed"
	FieldRev1      ProgressField = "rev1"
	FieldRev2      ProgressField = "rev2"
	FieldRev3      ProgressField = "rev3"
)

// ParseProgressField validates a checkbox name
func ParseProgressField(s string) (ProgressField, error) {
	switch ProgressField(s) {
	case FieldCompleted, FieldRev1, FieldRev2, FieldRev3:
		return ProgressField(s), nil
	}
	return "", fmt.Errorf("unknown progress field %q", s)
}

// PhaseProgress holds the first-pass flag and the three revision flags
type PhaseProgress struct {
	Completed bool `json:"completed"`
	Rev1      bool `json:"rev1"`
	Rev2      bool `json:"rev2"`
	Rev3      bool `json:"rev3"`
}

// CompletionStatus is keyed by phase id or subject name
type CompletionStatus map[string]PhaseProgress

// IsCompleted reports whether the first pass of id is done
func (s CompletionStatus) IsCompleted(id string) bool {
	return s[id].Completed
}

// Toggle returns a copy of the status with field of id flipped.
// Missing entries are created on first toggle.
func (s CompletionStatus) Toggle(id string, field ProgressField) CompletionStatus {
	out := make(CompletionStatus, len(s)+1)
	for k, v := range s {
		out[k] = v
	}

	p := out[id]
	switch field {
	case FieldCompleted:
		p.Completed = !p.Completed
	case FieldRev1:
		p.Rev1 = !p.Rev1
	case FieldRev2:
		p.Rev2 = !p.Rev2
	case FieldRev3:
		p.Rev3 = !p.Rev3
	}
	out[id] = p

	return out
}

// Progress returns the share of checked flags for id as a percentage
func (s CompletionStatus) Progress(id string) float64 {
	p, ok := s[id]
	if !ok {
		return 0
	}
	count := 0
	for _, flag := range []bool{p.Completed, p.Rev1, p.Rev2, p.Rev3} {
		if flag {
			count++
		}
	}
	return float64(count) / 4 * 100
}
