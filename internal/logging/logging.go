// Package logging builds the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
)

// New returns a logger tuned for the given environment: JSON at info level in
// production, human-readable text at debug level everywhere else.
func New(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
