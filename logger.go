package geocell

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/geocell/model"
)

// Logger wraps slog.Logger with index-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithColumn adds the indexed column to the logger.
func (l *Logger) WithColumn(col int) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", col),
	}
}

// LogAdd logs an add operation.
func (l *Logger) LogAdd(row model.RowHandle, cells int, err error) {
	if err != nil {
		l.Error("add entry failed",
			"row", uint64(row),
			"error", err,
		)
		return
	}
	l.Debug("add entry completed",
		"row", uint64(row),
		"cells", cells,
	)
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(row model.RowHandle, err error) {
	if err != nil {
		l.Error("delete entry failed",
			"row", uint64(row),
			"error", err,
		)
		return
	}
	l.Debug("delete entry completed",
		"row", uint64(row),
	)
}

// LogReplace logs a re-key of a row after relocation.
func (l *Logger) LogReplace(from, to model.RowHandle, err error) {
	if err != nil {
		l.Error("replace entry failed",
			"from", uint64(from),
			"to", uint64(to),
			"error", err,
		)
		return
	}
	l.Debug("replace entry completed",
		"from", uint64(from),
		"to", uint64(to),
	)
}

// LogSearch logs the outcome of BeginSearch.
func (l *Logger) LogSearch(levels int, matched bool) {
	l.Debug("covering search started",
		"levels_visited", levels,
		"matched", matched,
	)
}

// LogBuild logs a bulk build.
func (l *Logger) LogBuild(ctx context.Context, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "covering index build failed",
			"rows", rows,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "covering index build completed",
		"rows", rows,
	)
}

// LogValidity logs a failed validation pass.
func (l *Logger) LogValidity(err error) {
	if err != nil {
		l.Warn("covering index validation failed", "error", err)
	}
}
