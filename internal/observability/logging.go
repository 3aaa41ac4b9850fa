package observability

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/couchcryptid/weather-tile-service/internal/config"
)

// NewLogger builds the service logger from config: JSON for structured log
// shipping, tint for readable local output.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)

	if cfg.LogFormat == "text" {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

func parseLevel(s string) slog.Level {
	switch s {
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
