package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/pkg/models"
)

func TestRescheduleCoversBudgetWithoutGaps(t *testing.T) {
	today := calendar.MustParse("2026-01-01")
	exam := calendar.MustParse("2026-04-11") // 100 days away
	phases := []models.Phase{
		phase("A", "2025-10-01", "2025-10-31"),
		{ID: "B", IsUndecided: true},
		phase("C", "2026-06-01", "2026-06-30"),
		phase("D", "2026-07-01", "2026-07-30"),
	}
	status := models.CompletionStatus{"A": {Completed: true}}

	out, err := Reschedule(phases, status, exam, 30, today)
	require.NoError(t, err)
	require.Len(t, out, 4)

	// 70 days of budget over three phases
	perPhase := 23
	assert.Equal(t, phases[0], out[0], "completed phase keeps its dates")

	cursor := today
	for _, p := range out[1:] {
		assert.False(t, p.IsUndecided)
		assert.Equal(t, cursor, p.Start)
		assert.Equal(t, perPhase, p.Days())
		cursor = p.End.AddDays(1)
	}
	assert.Equal(t, today.AddDays(perPhase*3), cursor)
	assert.False(t, cursor.After(exam.AddDays(-30)))
}

func TestRescheduleDoesNotMutateInput(t *testing.T) {
	phases := []models.Phase{{ID: "A", IsUndecided: true}}

	_, err := Reschedule(phases, nil, calendar.MustParse("2026-12-31"), 30, calendar.MustParse("2026-01-01"))
	require.NoError(t, err)

	assert.True(t, phases[0].IsUndecided)
	assert.True(t, phases[0].Start.IsZero())
}

func TestRescheduleInsufficientTime(t *testing.T) {
	today := calendar.MustParse("2026-01-01")
	phases := []models.Phase{phase("A", "2026-01-01", "2026-01-10")}

	for _, daysLeft := range []int{0, 10, 30} {
		out, err := Reschedule(phases, nil, today.AddDays(daysLeft), 30, today)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, ErrInsufficientTime)

		var ite *InsufficientTimeError
		require.True(t, errors.As(err, &ite))
		assert.Equal(t, daysLeft-30, ite.BudgetDays)
		assert.Equal(t, 1, ite.Remaining)
	}
}

func TestRescheduleRejectsZeroLengthWindows(t *testing.T) {
	today := calendar.MustParse("2026-01-01")
	phases := []models.Phase{
		phase("A", "2026-01-01", "2026-01-10"),
		phase("B", "2026-01-11", "2026-01-20"),
		phase("C", "2026-01-21", "2026-01-30"),
	}

	_, err := Reschedule(phases, nil, today.AddDays(32), 30, today)
	assert.ErrorIs(t, err, ErrInsufficientTime)
}

func TestRescheduleNothingRemaining(t *testing.T) {
	phases := []models.Phase{phase("A", "2026-01-01", "2026-01-10")}
	status := models.CompletionStatus{"A": {Completed: true}}
	today := calendar.MustParse("2026-06-01")

	// no division by zero even when the budget is already gone
	out, err := Reschedule(phases, status, today, 30, today)
	require.NoError(t, err)
	assert.Equal(t, phases, out)
}

func TestRescheduleRejectsNegativeBuffer(t *testing.T) {
	today := calendar.MustParse("2026-01-01")
	phases := []models.Phase{phase("A", "2026-01-01", "2026-01-10")}

	out, err := Reschedule(phases, nil, today.AddDays(10), -5, today)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrNegativeBuffer)
	assert.NotErrorIs(t, err, ErrInsufficientTime)
}
