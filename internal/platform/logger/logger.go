// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a text logger at debug level for "development" and a JSON logger at info level otherwise.
func New(env string, w io.Writer) *slog.Logger {
	if strings.EqualFold(env, "development") {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Init installs a logger writing to stderr as the slog default and returns it.
func Init(env string) *slog.Logger {
	l := New(env, os.Stderr)
	slog.SetDefault(l)
	return l
}
