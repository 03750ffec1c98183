package planner

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/gateforge/pkg/models"
)

var (
	// ErrInvalidRange is returned for a dated phase that ends before it starts
	ErrInvalidRange = errors.New("phase ends before it starts")
	// ErrMissingDates is returned for a decided phase without start or end
	ErrMissingDates = errors.New("phase is missing start or end date")
	// ErrDuplicatePhase is returned when two phases share an id
	ErrDuplicatePhase = errors.New("duplicate phase id")
)

// Countdown is a non-negative duration split for display
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// NewCountdown splits d into days, hours, minutes and seconds.
// Negative durations are clamped to zero.
func NewCountdown(d time.Duration) Countdown {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return Countdown{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// IsZero reports whether the countdown has elapsed
func (c Countdown) IsZero() bool {
	return c == Countdown{}
}

func (c Countdown) String() string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds", c.Days, c.Hours, c.Minutes, c.Seconds)
}

// Resolution describes where in the plan a moment falls
type Resolution struct {
	// Phase containing the moment, nil when none does
	Active *models.Phase
	// True when no phase is active but a later one exists
	IsGap bool
	// Next phase to start during a gap
	GapTarget *models.Phase
	// Time until the active phase ends or the gap target starts
	Remaining Countdown
}

// Key identifies the resolved situation so callers can detect transitions
func (r Resolution) Key() string {
	switch {
	case r.Active != nil:
		return "active:" + r.Active.ID
	case r.GapTarget != nil:
		return "gap:" + r.GapTarget.ID
	}
	return "none"
}

// Resolve finds the active phase at now, or the next upcoming phase.
// Day boundaries are taken in now's location; a phase is active from
// 00:00 of its start to 23:59:59.999 of its end, both inclusive.
//
// When phases overlap the one that started last wins, then the shorter
// one, then the lower id.
func Resolve(phases []models.Phase, now time.Time) Resolution {
	loc := now.Location()
	valid := validPhases(phases)

	var active []models.Phase
	for _, p := range valid {
		if !now.Before(p.Start.StartOfDay(loc)) && !now.After(p.End.EndOfDay(loc)) {
			active = append(active, p)
		}
	}
	if len(active) > 0 {
		sort.Slice(active, func(i, j int) bool {
			a, b := active[i], active[j]
			if !a.Start.Equal(b.Start) {
				return a.Start.After(b.Start)
			}
			if a.Days() != b.Days() {
				return a.Days() < b.Days()
			}
			return a.ID < b.ID
		})
		p := active[0]
		return Resolution{
			Active:    &p,
			Remaining: NewCountdown(p.End.EndOfDay(loc).Sub(now)),
		}
	}

	var next *models.Phase
	for i := range valid {
		p := valid[i]
		if !p.Start.StartOfDay(loc).After(now) {
			continue
		}
		if next == nil || p.Start.Before(next.Start) || (p.Start.Equal(next.Start) && p.ID < next.ID) {
			next = &p
		}
	}
	if next != nil {
		return Resolution{
			IsGap:     true,
			GapTarget: next,
			Remaining: NewCountdown(next.Start.StartOfDay(loc).Sub(now)),
		}
	}

	return Resolution{}
}

// Pending reports whether any phase still lacks dates. Callers use it to
// tell "schedule pending" apart from "plan complete" when Resolve finds nothing.
func Pending(phases []models.Phase) bool {
	for _, p := range phases {
		if !p.IsDated() {
			return true
		}
	}
	return false
}

// ExamCountdown returns the time left until the exam instant
func ExamCountdown(examAt, now time.Time) Countdown {
	return NewCountdown(examAt.Sub(now))
}

// ValidatePhase checks a phase at the data entry boundary
func ValidatePhase(p models.Phase) error {
	if p.IsUndecided {
		return nil
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%s: %w", p.ID, ErrMissingDates)
	}
	if p.End.Before(p.Start) {
		return fmt.Errorf("%s: %w (%s > %s)", p.ID, ErrInvalidRange, p.Start, p.End)
	}
	return nil
}

// ValidateSchedule validates every phase and rejects duplicate ids
func ValidateSchedule(phases []models.Phase) error {
	seen := make(map[string]bool, len(phases))
	for _, p := range phases {
		if seen[p.ID] {
			return fmt.Errorf("%s: %w", p.ID, ErrDuplicatePhase)
		}
		seen[p.ID] = true
		if err := ValidatePhase(p); err != nil {
			return err
		}
	}
	return nil
}

func validPhases(phases []models.Phase) []models.Phase {
	var out []models.Phase
	for _, p := range phases {
		if p.IsDated() && !p.End.Before(p.Start) {
			out = append(out, p)
		}
	}
	return out
}
