package arraygo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arraygo-specific helpers so catalog
// operations log consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithName adds a container name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{Logger: l.Logger.With("name", name)}
}

// WithKind adds a container kind field to the logger.
func (l *Logger) WithKind(kind string) *Logger {
	return &Logger{Logger: l.Logger.With("kind", kind)}
}

// LogSave logs a container save operation.
func (l *Logger) LogSave(ctx context.Context, name, kind string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"kind", kind,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "save completed",
			"name", name,
			"kind", kind,
			"count", count,
		)
	}
}

// LogLoad logs a container load operation.
func (l *Logger) LogLoad(ctx context.Context, name, kind string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"kind", kind,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"name", name,
			"kind", kind,
		)
	}
}

// LogDelete logs a container delete operation.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"name", name,
		)
	}
}

// LogCommit logs a manifest commit.
func (l *Logger) LogCommit(ctx context.Context, version uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "manifest commit failed",
			"version", version,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "manifest committed",
			"version", version,
		)
	}
}

// LogResample logs a batch interpolation run.
func (l *Logger) LogResample(ctx context.Context, targets int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "resample failed",
			"targets", targets,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "resample completed",
			"targets", targets,
		)
	}
}
