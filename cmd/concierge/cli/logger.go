// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI command operations.
// When stderr is a terminal, uses slog.TextHandler for human-readable output.
// When stderr is piped or redirected (CI, scripts, integration tests), uses
// slog.JSONHandler for machine-parseable output compatible with the serve
// command's log format.
//
// The minimum level is info unless CONCIERGE_LOG_LEVEL names another
// level (debug, info, warn, error).
//
// Callers scope the logger with command-specific context via With():
//
//	logger := cli.NewCommandLogger().With(
//	    "command", "describe",
//	    "url", endpoint.URL,
//	)
func NewCommandLogger() *slog.Logger {
	return newStderrLogger(levelFromEnvironment())
}

// NewClientLogger creates a logger for commands whose primary output is
// the protocol exchange itself (describe, call). The caller picks the
// level; interactive commands pass slog.LevelWarn so that client-side
// request logging does not interleave with rendered output.
func NewClientLogger(level slog.Level) *slog.Logger {
	return newStderrLogger(level)
}

func newStderrLogger(level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// levelFromEnvironment reads CONCIERGE_LOG_LEVEL. Unknown or empty
// values map to info; a CLI run should never fail over logging.
func levelFromEnvironment() slog.Level {
	switch os.Getenv("CONCIERGE_LOG_LEVEL") {
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
