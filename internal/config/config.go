package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings read from the environment
type Config struct {
	// Empty means SQLite under DataDir, postgres:// URLs use PostgreSQL
	DatabaseURL string
	DataDir     string

	TelegramToken string
	OwnerChatID   int64

	Location *time.Location

	// Revision days kept free before the exam by the backward planner
	BufferDays int
	// Local hour of the daily review reminder
	ReminderHour   int
	BackupInterval time.Duration

	LogMode string
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %v", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("OWNER_CHAT_ID", 0)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("BUFFER_DAYS", 30)
	v.SetDefault("REMINDER_HOUR", 9)
	v.SetDefault("BACKUP_INTERVAL", "6h")
	v.SetDefault("LOG_MODE", "dev")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %v", err)
	}

	cfg := &Config{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DataDir:        v.GetString("DATA_DIR"),
		TelegramToken:  v.GetString("TELEGRAM_BOT_TOKEN"),
		OwnerChatID:    v.GetInt64("OWNER_CHAT_ID"),
		Location:       loc,
		BufferDays:     v.GetInt("BUFFER_DAYS"),
		ReminderHour:   v.GetInt("REMINDER_HOUR"),
		BackupInterval: v.GetDuration("BACKUP_INTERVAL"),
		LogMode:        v.GetString("LOG_MODE"),
	}

	if cfg.BufferDays < 0 {
		return nil, fmt.Errorf("BUFFER_DAYS must not be negative, got %d", cfg.BufferDays)
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return nil, fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", cfg.ReminderHour)
	}
	if cfg.BackupInterval <= 0 {
		return nil, fmt.Errorf("BACKUP_INTERVAL must be positive, got %s", cfg.BackupInterval)
	}

	return cfg, nil
}

// Now returns the current time in the configured location
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}
