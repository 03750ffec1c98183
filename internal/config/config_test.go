package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("OWNER_CHAT_ID", "4242")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, int64(4242), cfg.OwnerChatID)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 30, cfg.BufferDays)
	assert.Equal(t, 9, cfg.ReminderHour)
	assert.Equal(t, 6*time.Hour, cfg.BackupInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"REMINDER_HOUR":   "25",
		"BUFFER_DAYS":     "-1",
		"TIMEZONE":        "Mars/Olympus",
		"BACKUP_INTERVAL": "0s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
