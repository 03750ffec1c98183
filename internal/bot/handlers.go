package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/gateforge/internal/backup"
	"github.com/example/gateforge/internal/dependency"
	"github.com/example/gateforge/internal/planner"
	"github.com/example/gateforge/internal/spaced_repetition"
	"github.com/example/gateforge/pkg/models"
)

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		return b.handleStart(ctx, chatID)
	case "help":
		return b.handleHelp(chatID)
	case "status":
		return b.handleStatus(ctx, chatID)
	case "schedule":
		return b.handleSchedule(ctx, chatID)
	case "toggle":
		return b.handleToggle(ctx, chatID, message.CommandArguments())
	case "deps":
		return b.handleDeps(ctx, chatID)
	case "review":
		return b.startReview(ctx, chatID)
	case "addcard":
		return b.handleAddCard(ctx, chatID, message.CommandArguments())
	case "reschedule":
		return b.handleReschedule(ctx, chatID)
	case "backup":
		return b.handleBackup(ctx, chatID)
	case "mock":
		return b.handleMock(ctx, chatID, message.CommandArguments())
	case "mistake":
		return b.handleMistake(ctx, chatID, message.CommandArguments())
	case "daily":
		return b.handleDaily(ctx, chatID, message.CommandArguments())
	case "note":
		return b.handleNote(ctx, chatID, message.CommandArguments())
	case "ask":
		return b.handleAsk(ctx, chatID, message.CommandArguments())
	case "cheatsheet":
		return b.handleCheatSheet(ctx, chatID, message.CommandArguments())
	case "drill":
		return b.handleDrill(ctx, chatID, message.CommandArguments())
	default:
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Unknown command. Use /help to list the commands."))
	}
}

// HandleCallback handles inline button presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback == nil || callback.Message == nil || callback.Message.Chat == nil {
		return fmt.Errorf("invalid callback data: required fields are missing")
	}

	// Always answer the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warnf("Failed to answer callback: %v", err)
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	switch data := callback.Data; {
	case data == callbackStatus:
		return b.handleStatus(ctx, chatID)
	case data == callbackSchedule:
		return b.handleSchedule(ctx, chatID)
	case data == callbackDeps:
		return b.handleDeps(ctx, chatID)
	case data == callbackReview:
		return b.startReview(ctx, chatID)
	case data == callbackRescheduleConfirm:
		return b.confirmReschedule(ctx, chatID, messageID)
	case data == callbackRescheduleCancel:
		return b.cancelReschedule(chatID, messageID)
	case strings.HasPrefix(data, prefixShow):
		return b.showAnswer(ctx, chatID, messageID, strings.TrimPrefix(data, prefixShow))
	case strings.HasPrefix(data, prefixGrade):
		id, grade, err := parseGradeCallback(data)
		if err != nil {
			return err
		}
		return b.gradeCard(ctx, chatID, messageID, id, grade)
	default:
		return b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Unknown action"))
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) error {
	profile, err := b.profile.Load(ctx)
	if err != nil {
		return err
	}

	text := "👋 Welcome to GATE Forge!\n\n" +
		"I keep your study plan on track:\n" +
		"• which phase you are in and how long it lasts\n" +
		"• which subjects you can start next\n" +
		"• which flashcards are due today\n\n" +
		fmt.Sprintf("Exam date: %s", profile.ExamDate)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "📖 Commands\n\n" +
		"/status - active phase, exam countdown and due cards\n" +
		"/schedule - all phases with their checkboxes\n" +
		"/toggle <phase> <completed|rev1|rev2|rev3> - flip a checkbox\n" +
		"/deps - subjects completed, ready and locked\n" +
		"/review - review the cards due today\n" +
		"/addcard question | answer | subject - add a flashcard\n" +
		"/reschedule - spread unfinished phases up to the exam\n" +
		"/backup - download a JSON backup\n\n" +
		"📝 Journal\n" +
		"/mock provider | score | total | correct | wrong | minutes - log a mock\n" +
		"/mistake subject | topic | type | notes - log a mistake\n" +
		"/daily subject=hours, ... | questions | correct | focus - log today\n" +
		"/note keywords | answer | category - teach the knowledge base\n" +
		"/ask <words> - search the knowledge base\n" +
		"/cheatsheet [text] - show or replace the formula sheet\n" +
		"/drill <seconds> <ok|miss> - record a calculator drill\n\n" +
		"🗂 Leitner boxes\n" +
		"Forgot: box 1, again today\n" +
		"Hard: box 1, tomorrow\n" +
		"Good: one box up, 2^box days\n" +
		"Easy: two boxes up, 2^box+2 days"

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) error {
	phases, err := b.schedule.Load(ctx)
	if err != nil {
		return err
	}
	profile, err := b.profile.Load(ctx)
	if err != nil {
		return err
	}
	due, err := b.cards.Due(ctx)
	if err != nil {
		return err
	}
	mocks, err := b.journal.Mocks(ctx)
	if err != nil {
		return err
	}

	now := b.store.Now()
	view := statusView{
		Name:       profile.Name,
		Resolution: planner.Resolve(phases, now),
		Pending:    planner.Pending(phases),
		Due:        len(due),
		Mocks:      models.SummarizeMocks(mocks),
	}
	if examAt, err := profile.ExamTime(now.Location()); err == nil {
		countdown := planner.ExamCountdown(examAt, now)
		view.Exam = &countdown
	} else {
		b.log.Warnf("Invalid exam date %q: %v", profile.ExamDate, err)
	}

	return b.sendMessage(tgbotapi.NewMessage(chatID, formatStatus(view)))
}

func (b *Bot) handleSchedule(ctx context.Context, chatID int64) error {
	phases, err := b.schedule.Load(ctx)
	if err != nil {
		return err
	}
	status, err := b.schedule.LoadStatus(ctx)
	if err != nil {
		return err
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatSchedule(phases, status, b.store.Today())))
}

func (b *Bot) handleToggle(ctx context.Context, chatID int64, args string) error {
	id, field, err := parseToggle(args)
	if err != nil {
		return err
	}

	phases, err := b.schedule.Load(ctx)
	if err != nil {
		return err
	}
	if !knownProgressID(phases, id) {
		return fmt.Errorf("no phase or subject named %q", id)
	}

	status, err := b.schedule.Toggle(ctx, id, field)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("☑️ %s %s\n%s (%.0f%%)", id, field, progressMarks(status[id]), status.Progress(id))
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func knownProgressID(phases []models.Phase, id string) bool {
	for _, p := range phases {
		if p.ID == id {
			return true
		}
	}
	_, err := models.ParseSubject(id)
	return err == nil
}

func (b *Bot) handleDeps(ctx context.Context, chatID int64) error {
	status, err := b.schedule.LoadStatus(ctx)
	if err != nil {
		return err
	}
	analysis := dependency.Analyze(b.graph, status)
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatAnalysis(analysis)))
}

func (b *Bot) handleAddCard(ctx context.Context, chatID int64, args string) error {
	front, back, subject, err := parseAddCard(args)
	if err != nil {
		return err
	}

	card := spaced_repetition.NewCard(front, back, subject, b.store.Today())
	if err := b.cards.Add(ctx, card); err != nil {
		return err
	}

	text := fmt.Sprintf("➕ Added to %s, due today.", subject)
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleReschedule(ctx context.Context, chatID int64) error {
	phases, err := b.schedule.Load(ctx)
	if err != nil {
		return err
	}
	status, err := b.schedule.LoadStatus(ctx)
	if err != nil {
		return err
	}
	profile, err := b.profile.Load(ctx)
	if err != nil {
		return err
	}
	examDay, err := profile.ExamDay()
	if err != nil {
		return fmt.Errorf("invalid exam date %q: %v", profile.ExamDate, err)
	}

	proposal, err := planner.Reschedule(phases, status, examDay, b.config.BufferDays, b.store.Today())
	var short *planner.InsufficientTimeError
	if errors.As(err, &short) {
		text := fmt.Sprintf("⛔ Not enough time: %d days left for %d unfinished phases after keeping %d revision days.",
			short.BudgetDays, short.Remaining, b.config.BufferDays)
		return b.sendMessage(tgbotapi.NewMessage(chatID, text))
	}
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.proposal = proposal
	b.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, formatProposal(phases, proposal, status, b.config.BufferDays))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{
		{Text: "✅ Apply", CallbackData: callbackRescheduleConfirm},
		{Text: "✖️ Cancel", CallbackData: callbackRescheduleCancel},
	}})
	return b.sendMessage(msg)
}

func (b *Bot) confirmReschedule(ctx context.Context, chatID int64, messageID int) error {
	b.mu.Lock()
	proposal := b.proposal
	b.proposal = nil
	b.mu.Unlock()

	if proposal == nil {
		return b.sendMessage(tgbotapi.NewEditMessageText(chatID, messageID, "This proposal has expired. Run /reschedule again."))
	}
	if err := b.schedule.Save(ctx, proposal); err != nil {
		return err
	}
	b.log.Infof("Applied rescheduled plan with %d phases", len(proposal))
	return b.sendMessage(tgbotapi.NewEditMessageText(chatID, messageID, "✅ Schedule updated. See /schedule."))
}

func (b *Bot) cancelReschedule(chatID int64, messageID int) error {
	b.mu.Lock()
	b.proposal = nil
	b.mu.Unlock()
	return b.sendMessage(tgbotapi.NewEditMessageText(chatID, messageID, "Schedule left unchanged."))
}

func (b *Bot) handleBackup(ctx context.Context, chatID int64) error {
	var buf bytes.Buffer
	if err := backup.Export(ctx, b.store, &buf); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("gate_forge_backup_%s.json", b.store.Today()),
		Bytes: buf.Bytes(),
	})
	doc.Caption = "💾 Full backup, restore it with `gateforge import`."
	return b.sendMessage(doc)
}
