package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// maxInlineAttrs caps how many attributes are printed on one human log line.
const maxInlineAttrs = 6

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
)

// HumanHandlerOptions configures the human-readable log handler.
type HumanHandlerOptions struct {
	// Level is the minimum log level to output
	Level slog.Level
	// UseColors enables ANSI color codes
	UseColors bool
}

// HumanHandler is a slog handler that outputs human-readable log messages.
type HumanHandler struct {
	opts   HumanHandlerOptions
	mu     *sync.Mutex
	writer io.Writer
	attrs  []slog.Attr
	group  string
}

// NewHumanHandler creates a new human-readable log handler.
func NewHumanHandler(w io.Writer, opts *HumanHandlerOptions) *HumanHandler {
	if opts == nil {
		opts = &HumanHandlerOptions{Level: slog.LevelInfo}
	}
	return &HumanHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		writer: w,
	}
}

// Enabled returns true if the handler is enabled for the given level.
func (h *HumanHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

// Handle outputs a log record in human-readable format.
func (h *HumanHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Time.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(h.prefix(r.Level, r.Message))
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		parts = append(parts, h.formatAttr(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, h.formatAttr(a))
		return true
	})

	if len(parts) > 0 {
		shown := parts
		if len(shown) > maxInlineAttrs {
			shown = shown[:maxInlineAttrs]
		}
		sb.WriteString(" ")
		sb.WriteString(strings.Join(shown, " "))
		if extra := len(parts) - len(shown); extra > 0 {
			fmt.Fprintf(&sb, " (+%d more)", extra)
		}
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

// WithAttrs returns a new handler with the given attributes added.
func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a new handler that prefixes attribute keys with name.
func (h *HumanHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// prefix returns the level symbol, using a check mark for completion messages.
func (h *HumanHandler) prefix(level slog.Level, message string) string {
	lower := strings.ToLower(message)
	success := strings.Contains(lower, "completed") || strings.Contains(lower, "written")

	var symbol, color string
	switch {
	case level >= slog.LevelError:
		symbol, color = "✗", colorRed
	case level >= slog.LevelWarn:
		symbol, color = "⚠", colorYellow
	case level >= slog.LevelInfo && success:
		symbol, color = "✓", colorGreen
	case level >= slog.LevelInfo:
		symbol, color = "ℹ", colorCyan
	default:
		symbol, color = "·", colorReset
	}

	if h.opts.UseColors {
		return color + symbol + colorReset
	}
	return symbol
}

// formatAttr formats a single attribute for display.
func (h *HumanHandler) formatAttr(a slog.Attr) string {
	key := a.Key
	if h.group != "" && !strings.HasPrefix(key, h.group+".") {
		key = h.group + "." + key
	}

	switch v := a.Value.Any().(type) {
	case time.Duration:
		return fmt.Sprintf("%s=%s", key, formatDuration(v))
	case float64:
		return fmt.Sprintf("%s=%.2f", key, v)
	default:
		return fmt.Sprintf("%s=%v", key, v)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}
