// Package logging provides zerolog-based structured logging for memctl.
//
// Loggers are carried on the context so that client, engine, and CLI code
// share one configured logger per invocation. Every invocation gets a ULID
// trace ID attached to the context and stamped on each log event.
package logging

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// traceIDKey is the context key for the per-invocation trace ID.
type traceIDKey struct{}

// Config controls logger construction.
type Config struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	// Invalid or empty values fall back to info.
	Level string

	// Format selects "console" (human-readable, stderr) or "json".
	Format string

	// File is an optional path; when set, events are written to the file
	// in addition to the console writer.
	File string
}

// Result describes the logger that New produced, including whether file
// output is active so callers can tell the user where logs went.
type Result struct {
	Logger    zerolog.Logger
	UsingFile bool
	FilePath  string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New builds a logger from cfg. File-open failures are not fatal: the
// logger falls back to console-only output and the Result reflects that.
func New(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	if cfg.Format == "json" {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	result := Result{}
	if cfg.File != "" {
		f, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if openErr == nil {
			writers = append(writers, f)
			result.UsingFile = true
			result.FilePath = cfg.File
			result.file = f
		}
	}

	result.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return result
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored on ctx, or a disabled logger when
// none was attached. Use logger.WithContext(ctx) to attach one.
func FromContext(ctx context.Context) zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	return *logger
}

// NewTraceID generates a ULID trace identifier.
func NewTraceID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // Trace IDs are not security-sensitive.
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ContextWithTraceID stores a trace ID on the context.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored on ctx, or empty string.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateTraceID returns the context's trace ID, generating a fresh
// one when the context has none.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}
