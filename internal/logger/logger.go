// Package logger builds the process-wide structured logger. Both binaries
// log JSON to stdout; the level comes from configuration.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/corebank-posting-ledger/internal/config"
)

// NewLogger creates a JSON slog.Logger at the configured level. Unknown
// levels fall back to info. Source locations are attached only at debug,
// where the extra volume is worth it.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	log := slog.New(handler)

	log.Info("logger initialized", "level", level)
	return log
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
