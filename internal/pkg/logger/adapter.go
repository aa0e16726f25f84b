package logger

import (
	"log/slog"

	"neo_wallet/internal/app/port"
)

// slogAdapter реализует port.Logger поверх slog.
// Без привязанных атрибутов пишет через глобальный логгер пакета.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter creates a port.Logger backed by the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// NewNop returns a port.Logger that discards everything.
func NewNop() port.Logger {
	return &slogAdapter{l: slog.New(slog.DiscardHandler)}
}

func (a *slogAdapter) logger() *slog.Logger {
	if a.l != nil {
		return a.l
	}
	ensureInitialized()
	return globalLogger
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger().Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	a.logger().Debug(msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger().Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger().Error(msg, args...)
}

// With returns an adapter with args bound to every entry.
func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{l: a.logger().With(args...)}
}
