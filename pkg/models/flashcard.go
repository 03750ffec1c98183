package models

import (
	"time"

	"github.com/example/gateforge/internal/calendar"
)

// Flashcard is a spaced-repetition unit kept in a Leitner box
type Flashcard struct {
	ID             string        `json:"id"`
	Front          string        `json:"front"`
	Back           string        `json:"back"`
	Subject        Subject       `json:"subject"`
	Box            int           `json:"box"`            // 1..5
	NextReviewDate calendar.Date `json:"nextReviewDate"` // due when <= today
	LastReviewed   *time.Time    `json:"lastReviewed,omitempty"`
}

// UserProfile holds the onboarding answers
type UserProfile struct {
	Name            string `json:"name"`
	ExamDate        string `json:"examDate"`
	TargetYears     []int  `json:"targetYears"`
	IsSetupComplete bool   `json:"isSetupComplete"`
}

// ExamTime reads the exam instant in loc. A bare date means midnight.
func (p UserProfile) ExamTime(loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", calendar.Layout} {
		if t, err := time.ParseInLocation(layout, p.ExamDate, loc); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, p.ExamDate)
}

// ExamDay returns the calendar day of the exam
func (p UserProfile) ExamDay() (calendar.Date, error) {
	return calendar.Parse(p.ExamDate)
}
