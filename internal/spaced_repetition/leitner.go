package spaced_repetition

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/pkg/models"
)

// ErrUnknownGrade is returned when a grade string is not one of the four grades
var ErrUnknownGrade = errors.New("unknown grade")

// Grade is the outcome of reviewing a card
type Grade string

const (
	// Could not recall at all, card is due again today
	GradeForgot Grade = "forgot"
	// Recalled with a lot of effort
	GradeHard Grade = "hard"
	// Recalled correctly
	GradeGood Grade = "good"
	// Recalled instantly
	GradeEasy Grade = "easy"
)

// Grades lists the grades in button order
var Grades = []Grade{GradeForgot, GradeHard, GradeGood, GradeEasy}

// ParseGrade converts user input into a Grade
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Grades {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGrade, s)
}

// Leitner implements a five-box Leitner system
type Leitner struct {
	// Lowest box, new and forgotten cards live here
	MinBox int
	// Highest box, a card in it is considered mastered
	MaxBox int
}

// NewLeitner creates a Leitner scheduler with the default five boxes
func NewLeitner() *Leitner {
	return &Leitner{
		MinBox: 1,
		MaxBox: 5,
	}
}

// ReviewState is the scheduling part of a card after a review
type ReviewState struct {
	Box            int
	NextReviewDate calendar.Date
	LastReviewed   time.Time
}

// NextState computes the box and review date after grading a card at now
func (l *Leitner) NextState(card models.Flashcard, grade Grade, now time.Time) ReviewState {
	box := l.clamp(card.Box)

	var nextBox, days int
	switch grade {
	case GradeForgot:
		nextBox, days = l.MinBox, 0
	case GradeHard:
		nextBox, days = l.MinBox, 1
	case GradeGood:
		nextBox = l.clamp(box + 1)
		days = 1 << nextBox
	case GradeEasy:
		nextBox = l.clamp(box + 2)
		days = 1<<nextBox + 2
	default:
		// unknown grades leave the card where it is
		next := card.NextReviewDate
		if next.IsZero() {
			next = calendar.Today(now)
		}
		return ReviewState{Box: box, NextReviewDate: next, LastReviewed: now}
	}

	return ReviewState{
		Box:            nextBox,
		NextReviewDate: calendar.Today(now).AddDays(days),
		LastReviewed:   now,
	}
}

// Process returns a copy of card updated with the result of the review
func (l *Leitner) Process(card models.Flashcard, grade Grade, now time.Time) models.Flashcard {
	state := l.NextState(card, grade, now)

	card.Box = state.Box
	card.NextReviewDate = state.NextReviewDate
	reviewed := state.LastReviewed
	card.LastReviewed = &reviewed

	return card
}

// IsMastered reports whether the card reached the highest box
func (l *Leitner) IsMastered(card models.Flashcard) bool {
	return card.Box >= l.MaxBox
}

func (l *Leitner) clamp(box int) int {
	if box < l.MinBox {
		return l.MinBox
	}
	if box > l.MaxBox {
		return l.MaxBox
	}
	return box
}

// IsDue reports whether the card should be reviewed on today.
// A card without a review date is always due.
func IsDue(card models.Flashcard, today calendar.Date) bool {
	return !card.NextReviewDate.After(today)
}

// DueCards returns the cards due on today. The result is unordered;
// use Shuffle to build a review session.
func DueCards(cards []models.Flashcard, today calendar.Date) []models.Flashcard {
	var due []models.Flashcard
	for _, c := range cards {
		if IsDue(c, today) {
			due = append(due, c)
		}
	}
	return due
}

// Shuffle returns the cards in random order without touching the input
func Shuffle(cards []models.Flashcard, rnd *rand.Rand) []models.Flashcard {
	out := make([]models.Flashcard, len(cards))
	copy(out, cards)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// BoxHistogram counts cards per box. Index 0 is unused.
func (l *Leitner) BoxHistogram(cards []models.Flashcard) []int {
	hist := make([]int, l.MaxBox+1)
	for _, c := range cards {
		hist[l.clamp(c.Box)]++
	}
	return hist
}

// NewCard creates a card in the first box, due today
func NewCard(front, back string, subject models.Subject, today calendar.Date) models.Flashcard {
	return models.Flashcard{
		ID:             uuid.NewString(),
		Front:          strings.TrimSpace(front),
		Back:           strings.TrimSpace(back),
		Subject:        subject,
		Box:            1,
		NextReviewDate: today,
	}
}
