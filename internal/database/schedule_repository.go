package database

import (
	"context"
	"sort"

	"github.com/example/gateforge/pkg/models"
)

// ScheduleRepository handles the study phases and their completion flags
type ScheduleRepository struct {
	store *Store
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(store *Store) *ScheduleRepository {
	return &ScheduleRepository{store: store}
}

// Load returns the stored phases, or the default template if none were saved
func (r *ScheduleRepository) Load(ctx context.Context) ([]models.Phase, error) {
	return loadSchedule(ctx, r.store)
}

// Save stores the phases ordered by start date. Phases without a start
// date keep their relative order at the end.
func (r *ScheduleRepository) Save(ctx context.Context, phases []models.Phase) error {
	sorted := make([]models.Phase, len(phases))
	copy(sorted, phases)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Start, sorted[j].Start
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
	return r.store.Save(ctx, KeySchedule, sorted)
}

// Reset replaces the phases with the default template
func (r *ScheduleRepository) Reset(ctx context.Context) error {
	return r.Save(ctx, models.DefaultScheduleTemplate())
}

// LoadStatus returns the completion flags, empty if none were saved
func (r *ScheduleRepository) LoadStatus(ctx context.Context) (models.CompletionStatus, error) {
	return loadSyllabus(ctx, r.store)
}

// SaveStatus stores the completion flags
func (r *ScheduleRepository) SaveStatus(ctx context.Context, status models.CompletionStatus) error {
	return r.store.Save(ctx, KeySyllabus, status)
}

// Toggle flips one flag of id and stores the result
func (r *ScheduleRepository) Toggle(ctx context.Context, id string, field models.ProgressField) (models.CompletionStatus, error) {
	status, err := r.LoadStatus(ctx)
	if err != nil {
		return nil, err
	}
	status = status.Toggle(id, field)
	if err := r.SaveStatus(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

func loadSchedule(ctx context.Context, s *Store) ([]models.Phase, error) {
	var phases []models.Phase
	ok, err := s.Get(ctx, KeySchedule, &phases)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.DefaultScheduleTemplate(), nil
	}
	return phases, nil
}

func loadSyllabus(ctx context.Context, s *Store) (models.CompletionStatus, error) {
	status := models.CompletionStatus{}
	if _, err := s.Get(ctx, KeySyllabus, &status); err != nil {
		return nil, err
	}
	if status == nil {
		status = models.CompletionStatus{}
	}
	return status, nil
}
