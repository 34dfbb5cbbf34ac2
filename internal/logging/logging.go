// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so logs go to a file under the data directory
// instead of stderr. Tail it with `tail -f ~/.coach/coach.log` while
// debugging.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initializes the global logger writing to the given file at the
// given level. Returns a closer for the log file.
//
// Failure to open the log file is not fatal: logging falls back to a
// discard writer so the chat keeps working on a read-only filesystem.
func Setup(path, level string) io.Closer {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Logger = zerolog.New(io.Discard)
		return io.NopCloser(nil)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		log.Logger = zerolog.New(io.Discard)
		return io.NopCloser(nil)
	}

	log.Logger = zerolog.New(file).With().Timestamp().Logger()
	return file
}

// ParseLevel maps a config level string to a zerolog level. Unknown values
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
