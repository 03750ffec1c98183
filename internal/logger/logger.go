package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger wraps a zap sugared logger
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger for "dev" or "prod" mode
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: l.Sugar()}, nil
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With returns a child logger with extra fields
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

// Sync flushes buffered entries, ignoring the error stdout returns on some platforms
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
