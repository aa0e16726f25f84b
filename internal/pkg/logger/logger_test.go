package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in    string
		slog  slog.Level
		zap   zapcore.Level
		known bool
	}{
		{"debug", slog.LevelDebug, zapcore.DebugLevel, true},
		{"INFO", slog.LevelInfo, zapcore.InfoLevel, true},
		{"", slog.LevelInfo, zapcore.InfoLevel, true},
		{"warn", slog.LevelWarn, zapcore.WarnLevel, true},
		{"Error", slog.LevelError, zapcore.ErrorLevel, true},
		{"verbose", slog.LevelInfo, zapcore.InfoLevel, false},
	}
	for _, tc := range testCases {
		sl, zl, known := ParseLevel(tc.in)
		assert.Equal(t, tc.slog, sl, tc.in)
		assert.Equal(t, tc.zap, zl, tc.in)
		assert.Equal(t, tc.known, known, tc.in)
	}
}

func TestNopLoggerWith(t *testing.T) {
	l := NewNop().With("component", "test")
	assert.NotPanics(t, func() {
		l.Info("hello", "k", "v")
		l.Error("boom")
	})
}
