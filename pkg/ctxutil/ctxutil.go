// Package ctxutil carries per-invocation identifiers through a context.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey string

const (
	runIDKey   ctxKey = "run_id"
	commandKey ctxKey = "command"
)

// WithRunID stores the publish run ID in the context.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func RunIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithCommand stores the CLI command name in the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// CommandFromCtx extracts the command name from the context.
// Returns an empty string if absent.
func CommandFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(commandKey).(string)
	return name
}

// Logger returns log enriched with the identifiers found in ctx.
func Logger(ctx context.Context, log *slog.Logger) *slog.Logger {
	if name := CommandFromCtx(ctx); name != "" {
		log = log.With(slog.String("command", name))
	}
	if id, ok := RunIDFromCtx(ctx); ok {
		log = log.With(slog.String("run_id", id.String()))
	}
	return log
}
