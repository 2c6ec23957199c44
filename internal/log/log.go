// Package log provides structured logging to the info, error and command log files.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"notation/local-app/internal/model"
)

// Fields are structured attributes attached to a log entry.
type Fields map[string]interface{}

// Level is the minimum severity written to the info log.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger writes info and debug entries to the info log, warnings and errors
// to both logs, and executed commands to the command log.
type Logger struct {
	infoLogger    *slog.Logger
	errorLogger   *slog.Logger
	commandLogger *slog.Logger
	closers       []io.Closer
}

// NewLogger opens the log files named in cfg, creating the log folder if needed.
func NewLogger(cfg *model.Config, level Level) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var files []io.Closer
	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(cfg.LogFolder, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			for _, c := range files {
				c.Close()
			}
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		files = append(files, f)
		return f, nil
	}

	infoFile, err := open(cfg.InfoLog)
	if err != nil {
		return nil, err
	}
	errorFile, err := open(cfg.ErrorLog)
	if err != nil {
		return nil, err
	}
	commandFile, err := open(cfg.CommandLog)
	if err != nil {
		return nil, err
	}

	return &Logger{
		infoLogger:    slog.New(slog.NewJSONHandler(infoFile, &slog.HandlerOptions{Level: level})),
		errorLogger:   slog.New(slog.NewJSONHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelWarn})),
		commandLogger: slog.New(slog.NewJSONHandler(commandFile, &slog.HandlerOptions{Level: slog.LevelInfo})),
		closers:       files,
	}, nil
}

// NewWriter returns a Logger that writes every stream to w as text.
func NewWriter(w io.Writer, level Level) *Logger {
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return &Logger{
		infoLogger:    l,
		errorLogger:   slog.New(discardHandler{}),
		commandLogger: l.With("stream", "command"),
	}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	nop := slog.New(discardHandler{})
	return &Logger{infoLogger: nop, errorLogger: nop, commandLogger: nop}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields Fields) {
	l.infoLogger.DebugContext(ctx, msg, fields.attrs()...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields Fields) {
	l.infoLogger.InfoContext(ctx, msg, fields.attrs()...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields Fields) {
	attrs := fields.attrs()
	l.infoLogger.WarnContext(ctx, msg, attrs...)
	l.errorLogger.WarnContext(ctx, msg, attrs...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields Fields) {
	attrs := fields.attrs()
	l.infoLogger.ErrorContext(ctx, msg, attrs...)
	l.errorLogger.ErrorContext(ctx, msg, attrs...)
}

// Command records a command entered by the user.
func (l *Logger) Command(ctx context.Context, command string) {
	l.commandLogger.InfoContext(ctx, "command", slog.String("command", command))
}

// Close closes the log files.
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close log file: %w", err)
		}
	}
	l.closers = nil
	return firstErr
}

func (f Fields) attrs() []any {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(f))
	for _, k := range keys {
		v := f[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
