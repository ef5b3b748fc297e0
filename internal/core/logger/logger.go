// Package logger builds the zap logger used for diagnostic output.
// User-facing messages do not go through here; see internal/cli/ui.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to stderr at the given level.
func New(levelStr string) *zap.Logger {
	return NewWithWriter(levelStr, os.Stderr)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(levelStr string, w io.Writer) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		ParseLevel(levelStr),
	)
	return zap.New(core)
}

// ParseLevel maps a level name to a zap level. Unknown names fall back to warn
// so that a normal run stays quiet.
func ParseLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// LevelFor picks the level for a run with or without --verbose.
func LevelFor(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "warn"
}
