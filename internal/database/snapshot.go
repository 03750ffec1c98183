package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/example/gateforge/pkg/models"
)

// Snapshot is the whole user state as one JSON document. It is both the
// automatic backup and the export file format. On import a nil section
// means "absent" and leaves the stored value alone.
type Snapshot struct {
	Profile    *models.UserProfile     `json:"profile"`
	Mocks      []models.MockTest       `json:"mocks"`
	Errors     []models.ErrorLogEntry  `json:"errors"`
	Daily      []models.DailyLog       `json:"daily"`
	InfoImages []models.InfoItem       `json:"infoImages"`
	Syllabus   models.CompletionStatus `json:"syllabus"`
	Schedule   []models.Phase          `json:"schedule"`
	Knowledge  []models.KnowledgeItem  `json:"knowledge"`
	CalcStats  *models.DrillStats      `json:"calcStats"`
	CheatSheet *models.CheatSheet      `json:"cheatSheet"`
	Flashcards []models.Flashcard      `json:"flashcards"`
	Timestamp  string                  `json:"timestamp"`
	Version    string                  `json:"version,omitempty"`
}

// BuildSnapshot reads every section from the store
func (s *Store) BuildSnapshot(ctx context.Context) (*Snapshot, error) {
	journal := NewJournalRepository(s)
	knowledge := NewKnowledgeRepository(s)

	profile, err := loadProfile(ctx, s)
	if err != nil {
		return nil, err
	}
	mocks, err := journal.Mocks(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := journal.Errors(ctx)
	if err != nil {
		return nil, err
	}
	daily, err := journal.DailyLogs(ctx)
	if err != nil {
		return nil, err
	}
	info, err := journal.InfoItems(ctx)
	if err != nil {
		return nil, err
	}
	syllabus, err := loadSyllabus(ctx, s)
	if err != nil {
		return nil, err
	}
	schedule, err := loadSchedule(ctx, s)
	if err != nil {
		return nil, err
	}
	items, err := knowledge.Items(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := knowledge.CalcStats(ctx)
	if err != nil {
		return nil, err
	}
	sheet, err := knowledge.CheatSheet(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := loadFlashcards(ctx, s)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Profile:    &profile,
		Mocks:      mocks,
		Errors:     entries,
		Daily:      daily,
		InfoImages: info,
		Syllabus:   syllabus,
		Schedule:   schedule,
		Knowledge:  items,
		CalcStats:  &stats,
		CheatSheet: &sheet,
		Flashcards: cards,
		Timestamp:  s.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// CreateBackup stores a fresh snapshot under the backup key
func (s *Store) CreateBackup(ctx context.Context) error {
	snap, err := s.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	return s.Put(ctx, KeyBackup, snap)
}

// ApplySnapshot writes every present section of snap into the store.
// The backup snapshot itself is not refreshed.
func (s *Store) ApplySnapshot(ctx context.Context, snap *Snapshot) error {
	sections := []struct {
		key     string
		present bool
		value   interface{}
	}{
		{KeyUserProfile, snap.Profile != nil, snap.Profile},
		{KeyMocks, snap.Mocks != nil, snap.Mocks},
		{KeyErrors, snap.Errors != nil, snap.Errors},
		{KeyDaily, snap.Daily != nil, snap.Daily},
		{KeyInfoImages, snap.InfoImages != nil, snap.InfoImages},
		{KeySyllabus, snap.Syllabus != nil, snap.Syllabus},
		{KeySchedule, snap.Schedule != nil, snap.Schedule},
		{KeyKnowledge, snap.Knowledge != nil, snap.Knowledge},
		{KeyCalcStats, snap.CalcStats != nil, snap.CalcStats},
		{KeyCheatSheet, snap.CheatSheet != nil, snap.CheatSheet},
		{KeyFlashcards, snap.Flashcards != nil, snap.Flashcards},
	}

	for _, section := range sections {
		if !section.present {
			continue
		}
		if err := s.Put(ctx, section.key, section.value); err != nil {
			return err
		}
	}
	return nil
}

// RestoreBackup copies the last automatic snapshot back into the data keys.
// It reports false when no backup exists.
func (s *Store) RestoreBackup(ctx context.Context) (bool, error) {
	var snap Snapshot
	ok, err := s.Get(ctx, KeyBackup, &snap)
	if err != nil {
		return false, errors.Wrap(err, "restore failed")
	}
	if !ok {
		return false, nil
	}
	if err := s.ApplySnapshot(ctx, &snap); err != nil {
		return false, errors.Wrap(err, "restore failed")
	}
	s.log.Infof("Restored backup taken at %s", snap.Timestamp)
	return true, nil
}

// BackupTimestamp returns when the last automatic backup was taken
func (s *Store) BackupTimestamp(ctx context.Context) (string, bool, error) {
	raw, ok, err := s.GetRaw(ctx, KeyBackup)
	if err != nil || !ok {
		return "", false, err
	}
	var head struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", false, nil
	}
	return head.Timestamp, head.Timestamp != "", nil
}
