package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// New returns a logger writing to STDOUT. FLEETOPS_LOG_LEVEL selects the
// level (debug, info, warn, error; default info) and FLEETOPS_LOG_FORMAT=json
// switches to the JSON handler.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}
	if strings.EqualFold(os.Getenv("FLEETOPS_LOG_FORMAT"), "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("FLEETOPS_LOG_LEVEL")) {
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

type ctxKey struct{}

// NewContext returns a copy of ctx with the logger stored.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves a logger from ctx or returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
