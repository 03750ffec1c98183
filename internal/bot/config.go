package bot

import (
	"github.com/example/gateforge/internal/planner"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Telegram bot token
	Token string
	// The only chat the bot answers to
	OwnerChatID int64
	// Maximum number of cards in one review session
	ReviewBatch int
	// Revision days kept free before the exam when rescheduling
	BufferDays int
	// Long polling timeout in seconds
	UpdateTimeout int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		ReviewBatch:   20,
		BufferDays:    planner.DefaultBufferDays,
		UpdateTimeout: 60,
	}
}
