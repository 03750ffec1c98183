package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

// startReview builds a shuffled session from the cards due today
func (b *Bot) startReview(ctx context.Context, chatID int64) error {
	due, err := b.cards.Due(ctx)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "🎉 Nothing is due today."))
	}

	b.mu.Lock()
	due = spaced_repetition.Shuffle(due, b.rnd)
	if len(due) > b.config.ReviewBatch {
		due = due[:b.config.ReviewBatch]
	}
	session := &reviewSession{Graded: make(map[string]int)}
	for _, c := range due {
		session.Queue = append(session.Queue, c.ID)
	}
	b.session = session
	b.mu.Unlock()

	b.log.Infof("Review session started with %d cards", len(session.Queue))
	return b.sendCurrentCard(ctx, chatID)
}

// sendCurrentCard shows the front of the next card in the session, or the
// summary once the queue is done
func (b *Bot) sendCurrentCard(ctx context.Context, chatID int64) error {
	b.mu.Lock()
	session := b.session
	b.mu.Unlock()
	if session == nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "No review in progress. Use /review."))
	}

	if session.Position >= len(session.Queue) {
		b.mu.Lock()
		b.session = nil
		b.mu.Unlock()
		return b.sendMessage(tgbotapi.NewMessage(chatID, formatSessionSummary(session)))
	}

	card, err := b.findCard(ctx, session.Queue[session.Position])
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, formatCardFront(card, session.Position+1, len(session.Queue)))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "👀 Show answer", CallbackData: prefixShow + card.ID}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) showAnswer(ctx context.Context, chatID int64, messageID int, cardID string) error {
	card, err := b.findCard(ctx, cardID)
	if err != nil {
		return err
	}

	position, total := 1, 1
	b.mu.Lock()
	if b.session != nil {
		position, total = b.session.Position+1, len(b.session.Queue)
	}
	b.mu.Unlock()

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID,
		formatCardBack(card, position, total), createKeyboard(gradeButtons(card.ID)))
	return b.sendMessage(edit)
}

func (b *Bot) gradeCard(ctx context.Context, chatID int64, messageID int, cardID string, grade spaced_repetition.Grade) error {
	card, err := b.cards.Grade(ctx, cardID, grade)
	if err != nil {
		return err
	}

	if err := b.sendMessage(tgbotapi.NewEditMessageText(chatID, messageID, formatGraded(card, grade))); err != nil {
		b.log.Warnf("Failed to update graded card message: %v", err)
	}

	b.mu.Lock()
	session := b.session
	inSession := session != nil && session.Position < len(session.Queue) && session.Queue[session.Position] == cardID
	if inSession {
		session.Position++
		session.Graded[string(grade)]++
	}
	b.mu.Unlock()

	if !inSession {
		return nil
	}
	return b.sendCurrentCard(ctx, chatID)
}

func (b *Bot) findCard(ctx context.Context, id string) (models.Flashcard, error) {
	cards, err := b.cards.Load(ctx)
	if err != nil {
		return models.Flashcard{}, err
	}
	for _, c := range cards {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Flashcard{}, fmt.Errorf("card %s no longer exists", id)
}

func formatSessionSummary(session *reviewSession) string {
	text := fmt.Sprintf("🏁 Review done: %d cards", len(session.Queue))
	for _, g := range spaced_repetition.Grades {
		if n := session.Graded[string(g)]; n > 0 {
			text += fmt.Sprintf("\n%s: %d", g, n)
		}
	}
	return text
}
