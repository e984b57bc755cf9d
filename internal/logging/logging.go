// Package logging builds the JSON line logger shared by the services.
//
// Every line carries timestamp, level, service, version, environment and message,
// followed by the event fields passed to the log call.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Identity is stamped on every log line.
type Identity struct {
	Service     string
	Version     string
	Environment string
}

// New returns a JSON logger writing one object per line to w.
func New(w io.Writer, level slog.Level, id Identity) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})

	return slog.New(handler).With(
		"service", id.Service,
		"version", id.Version,
		"environment", id.Environment,
	)
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}

	return level, nil
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		return slog.String("timestamp", a.Value.Time().UTC().Format(TimestampLayout))
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, strings.ToLower(level.String()))
		}
	case slog.MessageKey:
		a.Key = "message"
	}

	return a
}
