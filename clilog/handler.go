package clilog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Handler is a slog.Handler that renders records as a single colorized line
// with no timestamp: `[LEVEL] message key=value ...`. Timestamps add nothing
// for a short-lived CLI process.
//
// Handle assembles the full line in a local builder and writes it with one
// Write call, so no mutex is needed; all fields are immutable after
// construction.
type Handler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// NewHandler creates a Handler writing to w at the given minimum level.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{w: w, level: level}
}

// Enabled reports whether records at the given level are handled.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes one record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, attr := range h.attrs {
		writeAttr(&b, attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler that prefixes every record with the given
// attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{w: h.w, level: h.level, attrs: merged}
}

// WithGroup is a no-op; groups add noise to single-line terminal output.
func (h *Handler) WithGroup(_ string) slog.Handler {
	return h
}

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiGray   = "\033[90m"
)

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed + "[ERROR]" + ansiReset
	case level >= slog.LevelWarn:
		return ansiYellow + "[WARN]" + ansiReset
	case level >= slog.LevelInfo:
		return ansiBlue + "[INFO]" + ansiReset
	default:
		return ansiGray + "[DEBUG]" + ansiReset
	}
}

func writeAttr(b *strings.Builder, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	b.WriteString(attr.Key)
	b.WriteByte('=')
	b.WriteString(formatValue(attr.Value))
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"") {
			return strconv.Quote(s)
		}
		return s
	}
	return fmt.Sprint(v.Any())
}
