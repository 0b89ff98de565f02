package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON structured logger writing to stdout. Loggers are passed
// explicitly; nothing in this codebase logs through a package-level default.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
