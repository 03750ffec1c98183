package database

import (
	"context"

	"github.com/example/gateforge/pkg/models"
)

// JournalRepository handles mock tests, the error journal, daily logs
// and saved syllabus resources. New entries go first.
type JournalRepository struct {
	store *Store
}

// NewJournalRepository creates a new repository instance
func NewJournalRepository(store *Store) *JournalRepository {
	return &JournalRepository{store: store}
}

// Mocks returns all mock tests, newest first
func (r *JournalRepository) Mocks(ctx context.Context) ([]models.MockTest, error) {
	mocks := []models.MockTest{}
	if _, err := r.store.Get(ctx, KeyMocks, &mocks); err != nil {
		return nil, err
	}
	return mocks, nil
}

// SaveMock prepends a mock test
func (r *JournalRepository) SaveMock(ctx context.Context, mock models.MockTest) error {
	mocks, err := r.Mocks(ctx)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, KeyMocks, append([]models.MockTest{mock}, mocks...))
}

// Errors returns the error journal, newest first
func (r *JournalRepository) Errors(ctx context.Context) ([]models.ErrorLogEntry, error) {
	entries := []models.ErrorLogEntry{}
	if _, err := r.store.Get(ctx, KeyErrors, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveError prepends an error journal entry
func (r *JournalRepository) SaveError(ctx context.Context, entry models.ErrorLogEntry) error {
	entries, err := r.Errors(ctx)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, KeyErrors, append([]models.ErrorLogEntry{entry}, entries...))
}

// DailyLogs returns the habit log, newest first
func (r *JournalRepository) DailyLogs(ctx context.Context) ([]models.DailyLog, error) {
	logs := []models.DailyLog{}
	if _, err := r.store.Get(ctx, KeyDaily, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// SaveDailyLog stores the entry for its date, replacing an earlier one
func (r *JournalRepository) SaveDailyLog(ctx context.Context, entry models.DailyLog) error {
	logs, err := r.DailyLogs(ctx)
	if err != nil {
		return err
	}

	out := []models.DailyLog{entry}
	for _, l := range logs {
		if l.Date != entry.Date {
			out = append(out, l)
		}
	}
	return r.store.Save(ctx, KeyDaily, out)
}

// InfoItems returns the saved resources. Items stored without a type are images.
func (r *JournalRepository) InfoItems(ctx context.Context) ([]models.InfoItem, error) {
	items := []models.InfoItem{}
	if _, err := r.store.Get(ctx, KeyInfoImages, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Type == "" {
			items[i].Type = "image"
		}
	}
	return items, nil
}

// SaveInfoItem prepends a resource
func (r *JournalRepository) SaveInfoItem(ctx context.Context, item models.InfoItem) error {
	items, err := r.InfoItems(ctx)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, KeyInfoImages, append([]models.InfoItem{item}, items...))
}

// DeleteInfoItem removes the resource with id
func (r *JournalRepository) DeleteInfoItem(ctx context.Context, id string) error {
	items, err := r.InfoItems(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return r.store.Save(ctx, KeyInfoImages, kept)
}
