package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Logger is a scoped slog wrapper. Scopes are immutable; File and Function
// return copies so a package-level logger can be narrowed per call.
type Logger struct {
	base     *slog.Logger
	pkg      string
	file     string
	function string
}

func New(pkg string) Logger {
	return Logger{base: slog.Default(), pkg: pkg}
}

// NewWithHandler is used by tests and the CLI to direct output somewhere other
// than the default handler.
func NewWithHandler(pkg string, handler slog.Handler) Logger {
	return Logger{base: slog.New(handler), pkg: pkg}
}

// Setup installs the process-wide default handler: JSON in production, text
// everywhere else.
func Setup(environment string) {
	level := slog.LevelDebug
	var handler slog.Handler
	if environment == "production" {
		level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) scope() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{l.pkg, l.file, l.function} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

func (l Logger) logger() *slog.Logger {
	if l.base == nil {
		return slog.Default()
	}
	return l.base
}

func (l Logger) log(level slog.Level, msg string, args ...any) {
	attrs := append([]any{"scope", l.scope()}, args...)
	l.logger().Log(context.Background(), level, msg, attrs...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.log(slog.LevelError, msg, append(slices.Clone(args), "error", err)...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// Err logs err and returns it wrapped with msg, keeping it reachable through
// errors.Is and errors.As.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.ErMsg(msg)
	return errors.New(msg)
}
