package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *slog.Logger
	zapLogger    *zap.Logger
)

// ParseLevel maps a config level string to slog and zap levels. Unknown values fall back to INFO.
func ParseLevel(levelStr string) (slog.Level, zapcore.Level, bool) {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug, zapcore.DebugLevel, true
	case "INFO", "":
		return slog.LevelInfo, zapcore.InfoLevel, true
	case "WARN":
		return slog.LevelWarn, zapcore.WarnLevel, true
	case "ERROR":
		return slog.LevelError, zapcore.ErrorLevel, true
	default:
		return slog.LevelInfo, zapcore.InfoLevel, false
	}
}

// InitLogger builds the zap logger and routes the global slog logger through it.
// format is "json" or "console".
func InitLogger(levelStr, format string) (*zap.Logger, error) {
	slogLevel, zapLevel, known := ParseLevel(levelStr)

	var zcfg zap.Config
	if strings.EqualFold(format, "console") {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)

	zl, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	handler := slogzap.Option{Level: slogLevel, Logger: zl}.NewZapHandler()
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	zapLogger = zl

	if !known {
		globalLogger.Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}
	return zl, nil
}

// Sync flushes buffered entries.
func Sync() {
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
}

func ensureInitialized() {
	if globalLogger == nil {
		if _, err := InitLogger("INFO", "json"); err != nil {
			zapLogger = zap.NewNop()
			globalLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
		}
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	if globalLogger.Enabled(context.Background(), slog.LevelDebug) {
		globalLogger.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	// Логируем всегда перед выходом, независимо от уровня
	globalLogger.Error(msg, args...)
	Sync()
	os.Exit(1)
}
