package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/logger"
	"github.com/example/gateforge/internal/planner"
	"github.com/example/gateforge/pkg/models"
)

func newStore(t *testing.T, now time.Time) *database.Store {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := database.NewStore(db, logger.Nop(), time.UTC)
	s.Clock = func() time.Time { return now }
	return s
}

func seed(t *testing.T, s *database.Store) {
	ctx := context.Background()
	require.NoError(t, database.NewProfileRepository(s).Save(ctx, models.UserProfile{
		Name: "Ravi", ExamDate: "2027-02-06T09:00:00", TargetYears: []int{2027}, IsSetupComplete: true,
	}))
	require.NoError(t, database.NewJournalRepository(s).SaveMock(ctx, models.MockTest{ID: "m1", Provider: "Made Easy", Score: 61.5}))
	require.NoError(t, database.NewJournalRepository(s).SaveError(ctx, models.ErrorLogEntry{
		ID: "e1", Subject: models.SubjectOS, MistakeType: models.MistakeSilly,
	}))
	_, err := database.NewScheduleRepository(s).Toggle(ctx, "Phase2", models.FieldCompleted)
	require.NoError(t, err)
	_, err = database.NewFlashcardRepository(s).Load(ctx)
	require.NoError(t, err)
}

func withoutTimestamp(t *testing.T, data []byte) map[string]json.RawMessage {
	t.Helper()
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	delete(doc, "timestamp")
	return doc
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newStore(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))
	seed(t, src)

	var first bytes.Buffer
	require.NoError(t, Export(ctx, src, &first))

	dst := newStore(t, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC))
	snap, err := Import(ctx, dst, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Version, snap.Version)

	var second bytes.Buffer
	require.NoError(t, Export(ctx, dst, &second))

	assert.Equal(t, withoutTimestamp(t, first.Bytes()), withoutTimestamp(t, second.Bytes()))

	_, ok, err := dst.BackupTimestamp(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "import refreshes the automatic backup")
}

func TestImportRequiresTimestamp(t *testing.T) {
	s := newStore(t, time.Now())

	_, err := Import(context.Background(), s, strings.NewReader(`{"mocks":[]}`))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Import(context.Background(), s, strings.NewReader(`not json`))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestImportRejectsBadSchedule(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, time.Now())

	doc := `{"timestamp":"2026-01-01T00:00:00Z","schedule":[{"id":"P1","name":"x","start":"2026-02-01","end":"2026-01-01"}]}`
	_, err := Import(ctx, s, strings.NewReader(doc))
	assert.ErrorIs(t, err, planner.ErrInvalidRange)

	phases, err := database.NewScheduleRepository(s).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultScheduleTemplate(), phases, "nothing written on failure")
}

func TestImportRejectsUnknownSubject(t *testing.T) {
	doc := `{"timestamp":"2026-01-01T00:00:00Z","flashcards":[{"id":"x","subject":"Alchemy","box":1,"nextReviewDate":"2026-01-01"}]}`
	_, err := Decode(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestImportLeavesAbsentSectionsAlone(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))
	seed(t, s)

	doc := `{"timestamp":"2026-01-01T00:00:00Z","schedule":[{"id":"Only","name":"Only","start":"2026-03-01","end":"2026-03-02"}]}`
	_, err := Import(ctx, s, strings.NewReader(doc))
	require.NoError(t, err)

	phases, err := database.NewScheduleRepository(s).Load(ctx)
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, calendar.MustParse("2026-03-02"), phases[0].End)

	mocks, err := database.NewJournalRepository(s).Mocks(ctx)
	require.NoError(t, err)
	assert.Len(t, mocks, 1)
}
