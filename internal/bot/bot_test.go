package bot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/logger"
	"github.com/example/gateforge/internal/planner"
	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

const ownerChat int64 = 42

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) lastText() string {
	if len(f.sent) == 0 {
		return ""
	}
	switch m := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	case tgbotapi.DocumentConfig:
		return m.Caption
	}
	return ""
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *database.Store) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := database.NewStore(db, logger.Nop(), time.UTC)
	store.Clock = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) }

	config := DefaultConfig()
	config.OwnerChatID = ownerChat
	api := &fakeSender{}
	return newBot(config, store, api, logger.Nop()), api, store
}

func command(text string) *tgbotapi.Message {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: ownerChat},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func callback(data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: ownerChat}},
	}
}

func TestNewRequiresTokenAndOwner(t *testing.T) {
	_, err := New(&BotConfig{OwnerChatID: 1}, nil, logger.Nop())
	assert.Error(t, err)
	_, err = New(&BotConfig{Token: "t"}, nil, logger.Nop())
	assert.Error(t, err)
}

func TestForeignChatIsIgnored(t *testing.T) {
	b, api, _ := newTestBot(t)
	msg := command("/status")
	msg.Chat = &tgbotapi.Chat{ID: 999}

	b.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})
	assert.Empty(t, api.sent)
}

func TestStatusShowsActivePhase(t *testing.T) {
	b, api, _ := newTestBot(t)

	require.NoError(t, b.HandleCommand(context.Background(), command("/status")))
	text := api.lastText()
	assert.Contains(t, text, "Active phase: C Programming + Data Structures (Phase1)")
	assert.Contains(t, text, "Cards due today: 1")
	assert.Contains(t, text, "Exam in")
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	require.NoError(t, b.HandleCommand(ctx, command("/toggle Phase2 rev1")))
	assert.Contains(t, api.lastText(), "25%")

	require.NoError(t, b.HandleCommand(ctx, command(`/toggle "Discrete Math" completed`)))
	status, err := b.schedule.LoadStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsCompleted("Discrete Math"))

	assert.Error(t, b.HandleCommand(ctx, command("/toggle Phase99 rev1")))
	assert.Error(t, b.HandleCommand(ctx, command("/toggle Phase2 rev4")))
}

func TestDepsReflectsStatus(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	require.NoError(t, b.HandleCommand(ctx, command("/deps")))
	assert.Contains(t, api.lastText(), "Theory of Computation (needs Discrete Math)")

	_, err := b.schedule.Toggle(ctx, string(models.SubjectDM), models.FieldCompleted)
	require.NoError(t, err)
	require.NoError(t, b.HandleCommand(ctx, command("/deps")))
	assert.NotContains(t, api.lastText(), "Theory of Computation (needs")
}

func TestReviewFlow(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	require.NoError(t, b.HandleCommand(ctx, command("/review")))
	assert.Contains(t, api.lastText(), "Card 1/1")
	assert.NotContains(t, api.lastText(), "n(n-1) / 2")

	require.NoError(t, b.HandleCallback(ctx, callback("show:f1")))
	assert.Contains(t, api.lastText(), "n(n-1) / 2")

	require.NoError(t, b.HandleCallback(ctx, callback("grade:f1:good")))
	assert.Contains(t, api.lastText(), "Review done: 1 cards")

	cards, err := b.cards.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cards[0].Box)
	assert.Equal(t, calendar.MustParse("2026-01-09"), cards[0].NextReviewDate)

	require.NoError(t, b.HandleCommand(ctx, command("/review")))
	assert.Contains(t, api.lastText(), "Nothing is due today")
}

func TestAddCard(t *testing.T) {
	ctx := context.Background()
	b, _, _ := newTestBot(t)

	require.NoError(t, b.HandleCommand(ctx, command("/addcard Belady's anomaly? | FIFO | Operating Systems")))
	cards, err := b.cards.Load(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "FIFO", cards[1].Back)
	assert.Equal(t, models.SubjectOS, cards[1].Subject)

	assert.Error(t, b.HandleCommand(ctx, command("/addcard only a question")))
}

func TestRescheduleConfirm(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	require.NoError(t, b.profile.Save(ctx, models.UserProfile{Name: "A", ExamDate: "2026-03-06"}))
	require.NoError(t, b.schedule.Save(ctx, []models.Phase{
		{ID: "P1", Name: "Done", Start: calendar.MustParse("2025-12-01"), End: calendar.MustParse("2025-12-31")},
		{ID: "P2", Name: "Next", IsUndecided: true},
	}))
	_, err := b.schedule.Toggle(ctx, "P1", models.FieldCompleted)
	require.NoError(t, err)

	require.NoError(t, b.HandleCommand(ctx, command("/reschedule")))
	assert.Contains(t, api.lastText(), "2026-01-05 → 2026-02-03 (30 days)")

	require.NoError(t, b.HandleCallback(ctx, callback(callbackRescheduleConfirm)))
	phases, err := b.schedule.Load(ctx)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, calendar.MustParse("2026-02-03"), phases[1].End)
	assert.False(t, phases[1].IsUndecided)

	require.NoError(t, b.HandleCallback(ctx, callback(callbackRescheduleConfirm)))
	assert.Contains(t, api.lastText(), "expired")
}

func TestRescheduleInsufficientTime(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	require.NoError(t, b.profile.Save(ctx, models.UserProfile{Name: "A", ExamDate: "2026-01-20"}))
	require.NoError(t, b.HandleCommand(ctx, command("/reschedule")))
	assert.Contains(t, api.lastText(), "Not enough time")
	assert.Nil(t, b.proposal)
}

func TestBackupSendsDocument(t *testing.T) {
	b, api, _ := newTestBot(t)

	require.NoError(t, b.HandleCommand(context.Background(), command("/backup")))
	require.Len(t, api.sent, 1)
	doc, ok := api.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)

	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "gate_forge_backup_2026-01-05.json", file.Name)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(file.Bytes, &payload))
	assert.Contains(t, payload, "timestamp")
	assert.Contains(t, payload, "schedule")
}

func TestNotifierMessages(t *testing.T) {
	b, api, _ := newTestBot(t)

	require.NoError(t, b.SendReminder(3))
	assert.Equal(t, "🧠 3 cards are due for review today.", api.lastText())

	p := models.Phase{ID: "P2", Name: "Algorithms", Start: calendar.MustParse("2026-02-01"), End: calendar.MustParse("2026-02-10")}
	require.NoError(t, b.NotifyPhaseChange(planner.Resolution{IsGap: true, GapTarget: &p, Remaining: planner.NewCountdown(26 * time.Hour)}))
	assert.Contains(t, api.lastText(), "Break before Algorithms (P2)\nStarts in 1d 02h 00m 00s")
}

func TestParseHelpers(t *testing.T) {
	id, grade, err := parseGradeCallback("grade:3f1c:easy")
	require.NoError(t, err)
	assert.Equal(t, "3f1c", id)
	assert.Equal(t, spaced_repetition.GradeEasy, grade)

	_, _, err = parseGradeCallback("grade:3f1c:meh")
	assert.ErrorIs(t, err, spaced_repetition.ErrUnknownGrade)
	_, _, err = parseGradeCallback("grade:")
	assert.Error(t, err)

	_, _, _, err = parseAddCard("q | a | Astrology")
	assert.Error(t, err)
	_, _, _, err = parseAddCard(" | a | DBMS")
	assert.Error(t, err)

	id, field, err := parseToggle(`"Theory of Computation" rev2`)
	require.NoError(t, err)
	assert.Equal(t, "Theory of Computation", id)
	assert.Equal(t, models.FieldRev2, field)
	_, _, err = parseToggle("Phase1")
	assert.Error(t, err)
}

func TestFormatResolution(t *testing.T) {
	assert.Contains(t, formatResolution(planner.Resolution{}, true), "Schedule pending")
	assert.Contains(t, formatResolution(planner.Resolution{}, false), "All phases are behind you")
}
