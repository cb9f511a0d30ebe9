// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zerolog backed implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	// Debug logs verbose diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported backends and output formats.
const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"

	FormatJSON = "json"
	FormatText = "text"
)

// New builds a Logger writing to w using the requested backend and format.
// Attributes whose keys name credentials (password, token, secret and the
// like) are written as Redacted by every backend.
func New(backend, format string, w io.Writer) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		h, err := newSlogHandler(format, w, slog.LevelInfo)
		if err != nil {
			return nil, err
		}
		return NewSlogLogger(slog.New(h)), nil
	case BackendZerolog:
		switch format {
		case "", FormatJSON:
		case FormatText:
			w = zerolog.ConsoleWriter{Out: w, NoColor: true}
		default:
			return nil, fmt.Errorf("unknown log format %q", format)
		}
		return NewZerologLogger(zerolog.New(w).With().Timestamp().Logger()), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
