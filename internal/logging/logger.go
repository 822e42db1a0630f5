// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the diagnostic logger shared by all stages.
// Human-facing progress still goes to the command's output writer; this
// logger carries warnings about relays, providers, and the cache.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger writing to w. format is "json" or "console"
// (the default); level is any zerolog level name, empty meaning "warn".
func New(w io.Writer, format, level string) (zerolog.Logger, error) {
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "" {
		lvl = "warn"
	}
	parsedLevel, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	writer := w
	if !strings.EqualFold(strings.TrimSpace(format), "json") {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "paperhub").
		Logger(), nil
}
