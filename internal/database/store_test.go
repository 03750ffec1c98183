package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/logger"
	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

var fixedNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewStore(db, logger.Nop(), time.UTC)
	s.Clock = func() time.Time { return fixedNow }
	return s
}

func TestStoreGetPut(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var out []string
	ok, err := s.Get(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", []string{"a", "b"}))
	require.NoError(t, s.Put(ctx, "k", []string{"c"}))

	ok, err = s.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"c"}, out)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)

	require.NoError(t, s.Delete(ctx, "k"))
	ok, err = s.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	profile, err := NewProfileRepository(s).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(), profile)

	phases, err := NewScheduleRepository(s).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultScheduleTemplate(), phases)

	cards, err := NewFlashcardRepository(s).Load(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "2026-01-05", cards[0].NextReviewDate.String())

	stats, err := NewKnowledgeRepository(s).CalcStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9999.0, stats.BestTimeSec)
}

func TestProfileTargetYearsDefaulted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.PutRaw(ctx, KeyUserProfile, []byte(`{"name":"Asha","examDate":"2027-02-01","isSetupComplete":true}`)))

	profile, err := NewProfileRepository(s).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)
	assert.Equal(t, []int{2027}, profile.TargetYears)
}

func TestScheduleSaveSortsByStart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewScheduleRepository(s)

	phases := []models.Phase{
		{ID: "undecided", IsUndecided: true},
		{ID: "late", Start: calendar.MustParse("2026-03-01"), End: calendar.MustParse("2026-03-10")},
		{ID: "early", Start: calendar.MustParse("2026-01-01"), End: calendar.MustParse("2026-01-10")},
	}
	require.NoError(t, repo.Save(ctx, phases))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	var ids []string
	for _, p := range loaded {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"early", "late", "undecided"}, ids)
	assert.Equal(t, "undecided", phases[0].ID, "input order untouched")
}

func TestToggleCreatesEntryLazily(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleRepository(newTestStore(t))

	status, err := repo.Toggle(ctx, "Phase3", models.FieldRev1)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseProgress{Rev1: true}, status["Phase3"])

	loaded, err := repo.LoadStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, status, loaded)
}

func TestGradeFlashcard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := NewFlashcardRepository(s)

	card := spaced_repetition.NewCard("Pumping lemma proves?", "Non-regularity", models.SubjectTOC, s.Today())
	require.NoError(t, repo.Add(ctx, card))

	due, err := repo.Due(ctx)
	require.NoError(t, err)
	assert.Len(t, due, 2)

	graded, err := repo.Grade(ctx, card.ID, spaced_repetition.GradeEasy)
	require.NoError(t, err)
	assert.Equal(t, 3, graded.Box)
	assert.Equal(t, "2026-01-15", graded.NextReviewDate.String())

	due, err = repo.Due(ctx)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	_, err = repo.Grade(ctx, "nope", spaced_repetition.GradeGood)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	repo := NewJournalRepository(newTestStore(t))

	require.NoError(t, repo.SaveMock(ctx, models.MockTest{ID: "m1"}))
	require.NoError(t, repo.SaveMock(ctx, models.MockTest{ID: "m2"}))
	mocks, err := repo.Mocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m2", mocks[0].ID)

	require.NoError(t, repo.SaveDailyLog(ctx, models.DailyLog{ID: "a", Date: "2026-01-05", FocusLevel: 2}))
	require.NoError(t, repo.SaveDailyLog(ctx, models.DailyLog{ID: "b", Date: "2026-01-05", FocusLevel: 4}))
	logs, err := repo.DailyLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "b", logs[0].ID)

	require.NoError(t, repo.SaveInfoItem(ctx, models.InfoItem{ID: "i1", Title: "Syllabus"}))
	require.NoError(t, repo.SaveInfoItem(ctx, models.InfoItem{ID: "i2", Type: "pdf"}))
	require.NoError(t, repo.DeleteInfoItem(ctx, "i2"))
	items, err := repo.InfoItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "image", items[0].Type)
}

func TestKnowledgeUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewKnowledgeRepository(newTestStore(t))

	seed := models.DefaultKnowledgeBase()
	require.NoError(t, repo.SaveItem(ctx, models.KnowledgeItem{ID: seed[0].ID, Answer: "edited"}))
	require.NoError(t, repo.SaveItem(ctx, models.KnowledgeItem{ID: "new", Answer: "added"}))

	items, err := repo.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(seed)+1)
	assert.Equal(t, "edited", items[0].Answer)
}

func TestSaveCreatesBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	schedule := NewScheduleRepository(s)

	_, ok, err := s.BackupTimestamp(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = schedule.Toggle(ctx, "Phase1", models.FieldCompleted)
	require.NoError(t, err)

	ts, ok, err := s.BackupTimestamp(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-01-05T10:00:00Z", ts)

	require.NoError(t, s.ClearAll(ctx))
	status, err := schedule.LoadStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, status)

	restored, err := s.RestoreBackup(ctx)
	require.NoError(t, err)
	assert.True(t, restored)

	status, err = schedule.LoadStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsCompleted("Phase1"))
}
