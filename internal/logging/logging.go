// Package logging configures structured logging for gatehouse.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default slog logger on stdout.
// Dev mode uses human-readable text at debug level; otherwise JSON at info.
func Setup(devMode bool) {
	slog.SetDefault(New(os.Stdout, devMode))
}

// New builds the logger Setup installs, writing to w.
func New(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
