// Package logger wires the process-wide slog logger: human-readable lines on
// stdout and the same records shipped through the OpenTelemetry log bridge.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const instrumentationName = "ctchen222/todo-api"

// MultiHandler fans a record out to several sinks. Each sink applies its own
// level, and a failing sink does not stop delivery to the others.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled is true when at least one sink wants the level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		sinks[i] = fn(handler)
	}
	return &MultiHandler{handlers: sinks}
}

// New builds a logger writing text to console and records to the global
// OpenTelemetry LoggerProvider. Debug lowers the console level and adds
// source locations.
func New(console io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	text := slog.NewTextHandler(console, &slog.HandlerOptions{
		AddSource: debug,
		Level:     level,
	})
	return slog.New(NewMultiHandler(text, otelslog.NewHandler(instrumentationName)))
}

// Init installs New(os.Stdout, debug) as the default logger. Call it after
// telemetry has set the global LoggerProvider.
func Init(debug bool) {
	slog.SetDefault(New(os.Stdout, debug))
}
