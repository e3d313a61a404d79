// Package clilog provides the slog handlers used by stockctl: a colorized
// human-friendly handler for terminal use and a JSON handler for machine
// consumption.
package clilog

import (
	"io"
	"log/slog"
	"os"
)

// New builds the logger for a command invocation. Human-friendly output goes
// to stderr so it never pollutes command output on stdout; jsonOutput
// switches to structured JSON for log-scraping setups.
func New(level slog.Level, jsonOutput bool) *slog.Logger {
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(NewHandler(os.Stderr, level))
}

// LevelFromVerbosity maps a repeatable --verbose count to a slog level:
// 0 warn, 1 info, 2+ debug. Commands are quiet by default.
func LevelFromVerbosity(count int) slog.Level {
	switch {
	case count <= 0:
		return slog.LevelWarn
	case count == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
