// Package logger implements ports.Logger on log/slog. Records carry an optional scope
// naming the extension or adapter that emitted them.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/ui/style"
)

// messager is implemented by zerr errors, which can report their message without the chain.
type messager interface {
	Message() string
}

var (
	_ ports.Logger = (*Logger)(nil)
	_ ports.Logger = (*scopedLogger)(nil)
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput updates the logger's output destination, keeping the current mode.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newHandler(w, enable))
}

// Scope returns a logger tagging every record with scope. Scoped loggers follow later
// SetOutput and SetJSON calls on l.
func (l *Logger) Scope(scope string) ports.Logger {
	return &scopedLogger{parent: l, scope: scope}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.log(slog.LevelInfo, "", msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.log(slog.LevelWarn, "", msg)
}

// Error logs an error with its cause chain.
func (l *Logger) Error(err error) {
	l.logError("", err)
}

func (l *Logger) log(level slog.Level, scope, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.LogAttrs(context.Background(), level, msg, scopeAttrs(scope)...)
}

func (l *Logger) logError(scope string, err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		attrs := append(scopeAttrs(scope), slog.Any("error", err))
		l.logger.LogAttrs(context.Background(), slog.LevelError, "operation failed", attrs...)
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelError,
		formatErrorEntries(collectErrorEntries(err)), scopeAttrs(scope)...)
}

func scopeAttrs(scope string) []slog.Attr {
	if scope == "" {
		return nil
	}
	return []slog.Attr{slog.String(ScopeKey, scope)}
}

// scopedLogger routes records through its parent with a fixed scope.
type scopedLogger struct {
	parent *Logger
	scope  string
}

func (s *scopedLogger) Info(msg string) {
	s.parent.log(slog.LevelInfo, s.scope, msg)
}

func (s *scopedLogger) Warn(msg string) {
	s.parent.log(slog.LevelWarn, s.scope, msg)
}

func (s *scopedLogger) Error(err error) {
	s.parent.logError(s.scope, err)
}

// Scope replaces the scope rather than nesting it.
func (s *scopedLogger) Scope(scope string) ports.Logger {
	return s.parent.Scope(scope)
}

// collectErrorEntries walks the error chain. zerr errors contribute their own message,
// the first foreign error ends the walk with its full text. Joined errors are flattened.
func collectErrorEntries(err error) []string {
	var messages []string
	current := err

	for current != nil {
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				messages = append(messages, collectErrorEntries(inner)...)
			}
			break
		}
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			messages = append(messages, msg)
		}
		current = errors.Unwrap(current)
	}
	return messages
}

func formatErrorEntries(messages []string) string {
	var lines []string

	for i, msg := range messages {
		parts := strings.Split(msg, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+parts[0])
			for _, line := range parts[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}
		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    "+style.Arrow+" "+parts[0])
		for _, line := range parts[1:] {
			lines = append(lines, "      "+line)
		}
	}

	return strings.Join(lines, "\n")
}
