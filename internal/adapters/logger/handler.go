package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/importmaps/internal/ui/output"
	"go.trai.ch/importmaps/internal/ui/style"
)

// ScopeKey is the attribute naming the component a record comes from. The pretty handler
// renders it as a bracketed prefix rather than a key=value pair.
const ScopeKey = "scope"

// PrettyHandler is a slog.Handler writing one colored line per record:
//
//	[icon] [scope] message key=value...
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	scope string
	// attrs holds handler-level attributes already rendered as key=value.
	attrs []string
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w, or to stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	scope := h.scope
	attrs := slices.Clone(h.attrs)
	r.Attrs(func(attr slog.Attr) bool {
		if h.isScope(attr) {
			scope = attr.Value.String()
			return true
		}
		attrs = append(attrs, formatAttr(h.group, attr))
		return true
	})

	icon, color := levelStyle(r.Level)

	var line strings.Builder
	if icon != "" {
		line.WriteString(h.paint(icon, color).String())
		line.WriteByte(' ')
	}
	if scope != "" {
		line.WriteString(h.paint("["+scope+"]", style.Iris).Bold().String())
		line.WriteByte(' ')
	}
	line.WriteString(h.paint(r.Message, color).String())
	if len(attrs) > 0 {
		line.WriteByte(' ')
		line.WriteString(h.out.String(strings.Join(attrs, " ")).Faint().String())
	}
	line.WriteByte('\n')

	_, err := h.out.WriteString(line.String())
	return err
}

func (h *PrettyHandler) paint(s string, color lipgloss.Color) termenv.Style {
	return h.out.String(s).Foreground(h.out.Color(string(color)))
}

// isScope reports whether attr sets the record scope. Grouped attributes never do.
func (h *PrettyHandler) isScope(attr slog.Attr) bool {
	return h.group == "" && attr.Key == ScopeKey
}

func levelStyle(level slog.Level) (icon string, color lipgloss.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, style.Red
	case level >= slog.LevelWarn:
		return style.Warning, style.Yellow
	default:
		return "", style.Slate
	}
}

// WithAttrs returns a handler that renders attrs on every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		if h.isScope(attr) {
			next.scope = attr.Value.String()
			continue
		}
		next.attrs = append(next.attrs, formatAttr(h.group, attr))
	}
	return next
}

// WithGroup returns a handler qualifying later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		scope: h.scope,
		attrs: slices.Clone(h.attrs),
		group: h.group,
	}
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
