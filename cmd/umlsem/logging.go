package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

// counts tallies the diagnostics logged during a run.
type counts struct {
	warnings atomic.Int64
	errors   atomic.Int64
}

// countingHandler forwards records to the wrapped handler and counts
// warnings and errors, including those below the output level.
type countingHandler struct {
	slog.Handler
	counts *counts
}

func (h *countingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.Handler.Enabled(ctx, level)
}

func (h *countingHandler) Handle(ctx context.Context, r slog.Record) error {
	switch {
	case r.Level >= slog.LevelError:
		h.counts.errors.Add(1)
	case r.Level >= slog.LevelWarn:
		h.counts.warnings.Add(1)
	}
	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

func (h *countingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &countingHandler{Handler: h.Handler.WithAttrs(attrs), counts: h.counts}
}

func (h *countingHandler) WithGroup(name string) slog.Handler {
	return &countingHandler{Handler: h.Handler.WithGroup(name), counts: h.counts}
}

func setupLogger(w io.Writer, verbose, quiet bool, format string) (*slog.Logger, *counts) {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	c := &counts{}
	return slog.New(&countingHandler{Handler: handler, counts: c}), c
}
