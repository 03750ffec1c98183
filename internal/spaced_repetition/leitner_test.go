package spaced_repetition

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/pkg/models"
)

func at(day string) time.Time {
	return calendar.MustParse(day).StartOfDay(time.UTC).Add(10 * time.Hour)
}

func TestNextStateTable(t *testing.T) {
	l := NewLeitner()
	now := at("2026-01-01")

	tests := []struct {
		grade   Grade
		box     int
		wantBox int
		days    int
	}{
		{GradeForgot, 4, 1, 0},
		{GradeHard, 3, 1, 1},
		{GradeGood, 1, 2, 4},
		{GradeGood, 4, 5, 32},
		{GradeGood, 5, 5, 32},
		{GradeEasy, 1, 3, 10},
		{GradeEasy, 4, 5, 34},
	}
	for _, tt := range tests {
		t.Run(string(tt.grade), func(t *testing.T) {
			state := l.NextState(models.Flashcard{Box: tt.box}, tt.grade, now)
			assert.Equal(t, tt.wantBox, state.Box)
			assert.Equal(t, calendar.Today(now).AddDays(tt.days), state.NextReviewDate)
			assert.Equal(t, now, state.LastReviewed)
		})
	}
}

func TestEasyOnFirstBox(t *testing.T) {
	card := models.Flashcard{ID: "c1", Box: 1, NextReviewDate: calendar.MustParse("2026-01-01")}

	updated := NewLeitner().Process(card, GradeEasy, at("2026-01-01"))

	assert.Equal(t, 3, updated.Box)
	assert.Equal(t, "2026-01-11", updated.NextReviewDate.String())
	require.NotNil(t, updated.LastReviewed)
	assert.Equal(t, 1, card.Box, "input card must stay untouched")
}

func TestUnknownGradeKeepsState(t *testing.T) {
	l := NewLeitner()
	now := at("2026-01-01")

	state := l.NextState(models.Flashcard{Box: 3, NextReviewDate: calendar.MustParse("2026-01-09")}, Grade("meh"), now)
	assert.Equal(t, 3, state.Box)
	assert.Equal(t, "2026-01-09", state.NextReviewDate.String())

	state = l.NextState(models.Flashcard{Box: 9}, Grade(""), now)
	assert.Equal(t, l.MaxBox, state.Box)
	assert.Equal(t, calendar.Today(now), state.NextReviewDate)
}

func TestGoodIsMonotonicUntilSaturation(t *testing.T) {
	l := NewLeitner()
	now := at("2026-01-01")
	card := models.Flashcard{Box: 1}

	prevBox, prevDays := card.Box, 0
	for i := 0; i < 6; i++ {
		card = l.Process(card, GradeGood, now)
		days := calendar.Today(now).DaysUntil(card.NextReviewDate)
		if prevBox < l.MaxBox {
			assert.Greater(t, card.Box, prevBox)
			assert.Greater(t, days, prevDays)
		} else {
			assert.Equal(t, l.MaxBox, card.Box)
			assert.Equal(t, prevDays, days)
		}
		prevBox, prevDays = card.Box, days
	}
	assert.True(t, l.IsMastered(card))
}

func TestForgotAlwaysResets(t *testing.T) {
	l := NewLeitner()
	now := at("2026-03-10")

	for box := 0; box <= 7; box++ {
		state := l.NextState(models.Flashcard{Box: box}, GradeForgot, now)
		assert.Equal(t, 1, state.Box)
		assert.Equal(t, calendar.Today(now), state.NextReviewDate)
	}
}

func TestDueCards(t *testing.T) {
	today := calendar.MustParse("2026-01-10")
	cards := []models.Flashcard{
		{ID: "past", NextReviewDate: calendar.MustParse("2026-01-01")},
		{ID: "today", NextReviewDate: today},
		{ID: "future", NextReviewDate: calendar.MustParse("2026-01-11")},
		{ID: "undated"},
	}

	due := DueCards(cards, today)

	var ids []string
	for _, c := range due {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"past", "today", "undated"}, ids)
	for _, c := range cards {
		assert.Equal(t, !c.NextReviewDate.After(today), IsDue(c, today))
	}
}

func TestShuffleKeepsCards(t *testing.T) {
	cards := []models.Flashcard{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	shuffled := Shuffle(cards, rand.New(rand.NewSource(7)))

	assert.ElementsMatch(t, cards, shuffled)
	assert.Equal(t, "a", cards[0].ID)
}

func TestParseGrade(t *testing.T) {
	g, err := ParseGrade(" Easy ")
	require.NoError(t, err)
	assert.Equal(t, GradeEasy, g)

	_, err = ParseGrade("perfect")
	assert.ErrorIs(t, err, ErrUnknownGrade)
}

func TestBoxHistogramAndNewCard(t *testing.T) {
	l := NewLeitner()
	today := calendar.MustParse("2026-02-01")
	card := NewCard(" Front ", "Back", models.SubjectOS, today)

	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "Front", card.Front)
	assert.Equal(t, 1, card.Box)
	assert.True(t, IsDue(card, today))

	hist := l.BoxHistogram([]models.Flashcard{card, {Box: 5}, {Box: 9}})
	assert.Equal(t, []int{0, 1, 0, 0, 0, 2}, hist)
}
