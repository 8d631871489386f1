package kit

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production logger every service shares. Level
// comes from LOG_LEVEL (debug/info/warn/error), defaulting to info.
func NewLogger(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv())
	cfg.InitialFields = map[string]any{"service": service}
	l, _ := cfg.Build()
	return l
}

func levelFromEnv() zapcore.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
