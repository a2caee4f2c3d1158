package logging

import (
	"context"
	"log/slog"

	"github.com/jkorri/spotthebot/internal/errors"
)

type contextKey string

const attrsKey contextKey = "attrs"

// ContextHandler decorates a [slog.Handler] so that attributes stashed on the
// request context with [WithAttrs] appear on every record logged under that
// context. This is how the profile id follows a request through the service
// and repository layers without being threaded into every call.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) ContextHandler {
	return ContextHandler{Handler: h}
}

// Handle adds the context-carried attributes to the record before delegating.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	if err := h.Handler.Handle(ctx, r); err != nil {
		return errors.Wrap(err, "handle log record")
	}
	return nil
}

// WithAttrs returns a context whose log records carry the given attributes.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		return context.WithValue(ctx, attrsKey, append(existing, attrs...))
	}
	return context.WithValue(ctx, attrsKey, attrs)
}
