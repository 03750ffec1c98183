package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/dependency"
	"github.com/example/gateforge/internal/logger"
	"github.com/example/gateforge/internal/planner"
	"github.com/example/gateforge/pkg/models"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// sender is the part of the Telegram API the handlers use
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// reviewSession is the owner's ongoing flashcard review
type reviewSession struct {
	Queue    []string
	Position int
	Graded   map[string]int
}

// Bot is the Telegram front end of the planner
type Bot struct {
	client *tgbotapi.BotAPI
	api    sender
	config *BotConfig
	log    *logger.Logger

	store     *database.Store
	profile   *database.ProfileRepository
	schedule  *database.ScheduleRepository
	cards     *database.FlashcardRepository
	journal   *database.JournalRepository
	knowledge *database.KnowledgeRepository
	graph     []dependency.Node

	mu       sync.Mutex
	rnd      *rand.Rand
	session  *reviewSession
	proposal []models.Phase
}

// New validates the configuration and connects to Telegram
func New(config *BotConfig, store *database.Store, log *logger.Logger) (*Bot, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if config.OwnerChatID == 0 {
		return nil, fmt.Errorf("OWNER_CHAT_ID is not set")
	}

	botAPI, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}
	log.Infof("Authorized on account %s", botAPI.Self.UserName)

	b := newBot(config, store, botAPI, log)
	b.client = botAPI
	return b, nil
}

func newBot(config *BotConfig, store *database.Store, api sender, log *logger.Logger) *Bot {
	if config.ReviewBatch <= 0 {
		config.ReviewBatch = DefaultConfig().ReviewBatch
	}
	return &Bot{
		api:       api,
		config:    config,
		log:       log,
		store:     store,
		profile:   database.NewProfileRepository(store),
		schedule:  database.NewScheduleRepository(store),
		cards:     database.NewFlashcardRepository(store),
		journal:   database.NewJournalRepository(store),
		knowledge: database.NewKnowledgeRepository(store),
		graph:     dependency.DefaultGraph(),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start handles updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("bot has no Telegram client")
	}

	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := b.client.GetUpdatesChan(updateConfig)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop(_ context.Context) error {
	if b.client != nil {
		b.client.StopReceivingUpdates()
	}
	b.log.Info("Bot stopped")
	return nil
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(due int) error {
	msg := tgbotapi.NewMessage(b.config.OwnerChatID, formatReminder(due))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🧠 Start review", CallbackData: callbackReview}},
	})
	if err := b.sendMessage(msg); err != nil {
		b.log.Errorf("Error sending reminder: %v", err)
		return err
	}
	b.log.Infof("Sent review reminder for %d cards", due)
	return nil
}

// NotifyPhaseChange implements the scheduler.Notifier interface
func (b *Bot) NotifyPhaseChange(res planner.Resolution) error {
	text := "🔔 Plan update\n\n" + formatResolution(res, false)
	return b.sendMessage(tgbotapi.NewMessage(b.config.OwnerChatID, text))
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.Chat == nil || update.Message.Chat.ID != b.config.OwnerChatID {
			b.log.Debugw("Ignoring message from foreign chat", "chat", update.Message.Chat)
			return
		}
		if !update.Message.IsCommand() {
			b.reply(update.Message.Chat.ID, "I only understand commands. Use /help to list them.")
			return
		}
		if err := b.HandleCommand(ctx, update.Message); err != nil {
			b.log.Errorf("Error handling /%s: %v", update.Message.Command(), err)
			b.reply(update.Message.Chat.ID, "❌ "+err.Error())
		}
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil || cb.Message.Chat.ID != b.config.OwnerChatID {
			return
		}
		if err := b.HandleCallback(ctx, cb); err != nil {
			b.log.Errorf("Error handling callback %q: %v", cb.Data, err)
			b.reply(cb.Message.Chat.ID, "❌ "+err.Error())
		}
	}
}

// MainMenuButtons returns the buttons for the main menu
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📍 Status", CallbackData: callbackStatus},
			{Text: "🗓 Schedule", CallbackData: callbackSchedule},
		},
		{
			{Text: "🧠 Review", CallbackData: callbackReview},
			{Text: "🕸 Dependencies", CallbackData: callbackDeps},
		},
	}
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %v", err)
	}
	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.sendMessage(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Errorf("Error replying: %v", err)
	}
}
