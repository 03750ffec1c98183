package planner

import (
	"errors"
	"fmt"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/pkg/models"
)

// DefaultBufferDays is the revision time kept free before the exam
const DefaultBufferDays = 30

// ErrInsufficientTime is returned when the remaining phases cannot fit
// between today and the exam minus the revision buffer
var ErrInsufficientTime = errors.New("insufficient time for rescheduling")

// ErrNegativeBuffer is returned for a revision buffer below zero
var ErrNegativeBuffer = errors.New("revision buffer must not be negative")

// InsufficientTimeError carries the numbers behind ErrInsufficientTime
type InsufficientTimeError struct {
	BudgetDays int
	Remaining  int
}

func (e *InsufficientTimeError) Error() string {
	return fmt.Sprintf("%v: %d days left after buffer for %d phases", ErrInsufficientTime, e.BudgetDays, e.Remaining)
}

// Is makes errors.Is(err, ErrInsufficientTime) work
func (e *InsufficientTimeError) Is(target error) bool {
	return target == ErrInsufficientTime
}

// Reschedule spreads the phases not yet completed evenly between today and
// examDate minus bufferDays. Each remaining phase, in its current order,
// gets perPhase whole days; the stored end date is inclusive, so phase k
// covers [today+k*perPhase, today+(k+1)*perPhase-1].
//
// Completed phases keep their dates. The input is not modified; the result
// is a proposal the caller saves after confirmation.
func Reschedule(phases []models.Phase, status models.CompletionStatus, examDate calendar.Date, bufferDays int, today calendar.Date) ([]models.Phase, error) {
	if bufferDays < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeBuffer, bufferDays)
	}

	out := make([]models.Phase, len(phases))
	copy(out, phases)

	remaining := 0
	for _, p := range phases {
		if !status.IsCompleted(p.ID) {
			remaining++
		}
	}
	if remaining == 0 {
		return out, nil
	}

	budget := today.DaysUntil(examDate) - bufferDays
	if budget <= 0 {
		return nil, &InsufficientTimeError{BudgetDays: budget, Remaining: remaining}
	}
	perPhase := budget / remaining
	if perPhase == 0 {
		return nil, &InsufficientTimeError{BudgetDays: budget, Remaining: remaining}
	}

	cursor := today
	for i := range out {
		if status.IsCompleted(out[i].ID) {
			continue
		}
		out[i].Start = cursor
		out[i].End = cursor.AddDays(perPhase - 1)
		out[i].IsUndecided = false
		cursor = cursor.AddDays(perPhase)
	}

	return out, nil
}
