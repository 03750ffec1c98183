package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/example/gateforge/pkg/models"
)

// maxAnswers caps the knowledge base hits shown for one /ask
const maxAnswers = 3

func (b *Bot) handleMock(ctx context.Context, chatID int64, args string) error {
	mock, err := parseMock(args)
	if err != nil {
		return err
	}
	mock.ID = uuid.NewString()
	mock.Date = b.store.Today().String()

	if err := b.journal.SaveMock(ctx, mock); err != nil {
		return err
	}
	mocks, err := b.journal.Mocks(ctx)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("✅ Logged %s: %.2f/%.0f, accuracy %.1f%%\n\n%s",
		mock.Provider, mock.Score, mock.TotalMarks, mock.Accuracy(), formatMockSummary(models.SummarizeMocks(mocks)))
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleMistake(ctx context.Context, chatID int64, args string) error {
	entry, err := parseMistake(args)
	if err != nil {
		return err
	}
	entry.ID = uuid.NewString()
	entry.Date = b.store.Today().String()

	if err := b.journal.SaveError(ctx, entry); err != nil {
		return err
	}
	entries, err := b.journal.Errors(ctx)
	if err != nil {
		return err
	}

	same := 0
	for _, e := range entries {
		if e.Subject == entry.Subject {
			same++
		}
	}
	text := fmt.Sprintf("📓 Logged %s in %s (%s). %d mistakes recorded for %s.",
		entry.MistakeType, entry.Topic, entry.Subject, same, entry.Subject)
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleDaily(ctx context.Context, chatID int64, args string) error {
	entry, err := parseDaily(args)
	if err != nil {
		return err
	}
	entry.ID = uuid.NewString()
	entry.Date = b.store.Today().String()

	if err := b.journal.SaveDailyLog(ctx, entry); err != nil {
		return err
	}

	text := fmt.Sprintf("📅 %s: %.1f hours studied, %d/%d practice questions, focus %d/5",
		entry.Date, entry.TotalHours(), entry.PracticeCorrect, entry.PracticeQuestions, entry.FocusLevel)
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleNote(ctx context.Context, chatID int64, args string) error {
	item, err := parseNote(args)
	if err != nil {
		return err
	}
	item.ID = uuid.NewString()

	if err := b.knowledge.SaveItem(ctx, item); err != nil {
		return err
	}

	text := fmt.Sprintf("💡 Knowledge updated. I now know about: %s.", strings.Join(item.Keywords, ", "))
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleAsk(ctx context.Context, chatID int64, query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: /ask <words>")
	}
	items, err := b.knowledge.Items(ctx)
	if err != nil {
		return err
	}

	hits := models.SearchKnowledge(items, query)
	if len(hits) == 0 {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "🤷 Nothing found. Teach me with /note."))
	}
	if len(hits) > maxAnswers {
		hits = hits[:maxAnswers]
	}

	answers := make([]string, len(hits))
	for i, item := range hits {
		answers[i] = fmt.Sprintf("[%s]\n%s", item.Category, item.Answer)
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, strings.Join(answers, "\n\n")))
}

func (b *Bot) handleCheatSheet(ctx context.Context, chatID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		sheet, err := b.knowledge.CheatSheet(ctx)
		if err != nil {
			return err
		}
		return b.sendMessage(tgbotapi.NewMessage(chatID, sheet.Content))
	}

	sheet := models.CheatSheet{Content: content, LastModified: b.store.Now().UTC().Format(time.RFC3339)}
	if err := b.knowledge.SaveCheatSheet(ctx, sheet); err != nil {
		return err
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, "📄 Cheat sheet saved."))
}

func (b *Bot) handleDrill(ctx context.Context, chatID int64, args string) error {
	seconds, correct, err := parseDrill(args)
	if err != nil {
		return err
	}

	stats, err := b.knowledge.CalcStats(ctx)
	if err != nil {
		return err
	}
	stats = stats.Record(seconds, correct)
	if err := b.knowledge.SaveCalcStats(ctx, stats); err != nil {
		return err
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatDrillStats(stats)))
}
