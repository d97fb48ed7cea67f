package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *slog.Logger
	initMu       sync.Mutex
)

// ParseLevel maps a config level string to a slog level.
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO", "":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewZapLogger builds the production zap logger used as the sink of every log line.
func NewZapLogger(levelStr string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, _ := ParseLevel(levelStr)
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(lvl))
	return cfg.Build()
}

func toZapLevel(l slog.Level) zapcore.Level {
	switch {
	case l <= slog.LevelDebug:
		return zapcore.DebugLevel
	case l <= slog.LevelInfo:
		return zapcore.InfoLevel
	case l <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Init installs a global slog logger that writes into zapLogger.
func Init(zapLogger *zap.Logger, levelStr string) {
	lvl, ok := ParseLevel(levelStr)

	handler := slogzap.Option{
		Level:  lvl,
		Logger: zapLogger,
	}.NewZapHandler()

	initMu.Lock()
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	initMu.Unlock()

	if !ok {
		globalLogger.Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}
}

// ensureInitialized falls back to a no-op sink so packages can log before Init (e.g. in tests).
func ensureInitialized() *slog.Logger {
	initMu.Lock()
	defer initMu.Unlock()
	if globalLogger == nil {
		globalLogger = slog.New(slogzap.Option{Level: slog.LevelError, Logger: zap.NewNop()}.NewZapHandler())
	}
	return globalLogger
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	l := ensureInitialized()
	if l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	l := ensureInitialized()
	if l.Enabled(context.Background(), slog.LevelInfo) {
		l.Info(msg, args...)
	}
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	l := ensureInitialized()
	if l.Enabled(context.Background(), slog.LevelWarn) {
		l.Warn(msg, args...)
	}
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized().Error(msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized().Error(msg, args...)
	os.Exit(1)
}
