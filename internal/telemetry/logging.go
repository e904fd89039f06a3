package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a JSON logger that stamps records with the ids of the
// active trace span.
func NewLogger(level slog.Level) *slog.Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo is NewLogger writing to w. Tests capture output through it.
func NewLoggerTo(w io.Writer, level slog.Level) *slog.Logger {
	base := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(&spanHandler{inner: base})
}

// spanHandler adds trace_id and span_id attributes when the context carries
// an active span.
type spanHandler struct {
	inner slog.Handler
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *spanHandler) Handle(ctx context.Context, r slog.Record) error {
	traceID := TraceID(ctx)
	spanID := SpanID(ctx)
	if traceID == "" && spanID == "" {
		return h.inner.Handle(ctx, r)
	}

	rec := r.Clone()
	if traceID != "" {
		rec.AddAttrs(slog.String("trace_id", traceID))
	}
	if spanID != "" {
		rec.AddAttrs(slog.String("span_id", spanID))
	}
	return h.inner.Handle(ctx, rec)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{inner: h.inner.WithGroup(name)}
}
