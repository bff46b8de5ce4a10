// Package logging wires the process-wide zerolog logger.
//
// The teacher's pkg/logger hand-rolled a level-filtered, component-scoped
// logger; the rest of the retrieved pack (the Alfred gateway) reaches for
// zerolog for the same job, so that's what backs every component logger
// here instead.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger scoped to component, filtered at levelStr.
// Unknown level strings fall back to info, matching the teacher's
// parseLogLevel default.
func New(component, levelStr string) zerolog.Logger {
	return base(os.Stdout).
		Level(parseLevel(levelStr)).
		With().
		Str("component", component).
		Timestamp().
		Logger()
}

// NewTo is New but writing to an arbitrary sink; used by tests that want to
// capture log output instead of writing to stdout.
func NewTo(w io.Writer, component, levelStr string) zerolog.Logger {
	return base(w).
		Level(parseLevel(levelStr)).
		With().
		Str("component", component).
		Timestamp().
		Logger()
}

func base(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(console)
}

func parseLevel(levelStr string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
