package closestpos

import (
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/closestpos/handle"
)

// Logger wraps slog.Logger with closestpos-specific fields.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithIdentity adds the identity name to the logger.
func (l *Logger) WithIdentity(ident *handle.Identity) *Logger {
	return &Logger{
		Logger: l.Logger.With("identity", ident.Name()),
	}
}

// LogCreate logs an index construction.
func (l *Logger) LogCreate(h handle.Handle, points int, bytes int64, err error) {
	if err != nil {
		l.Error("create failed",
			"error", err,
		)
		return
	}
	l.Debug("index created",
		"handle", h,
		"points", points,
		"bytes", bytes,
	)
}

// LogFindError logs a failed query. Successful queries are not logged.
func (l *Logger) LogFindError(h handle.Handle, err error) {
	l.Warn("find failed",
		"handle", h,
		"error", err,
	)
}

// LogRelease logs a handle release.
func (l *Logger) LogRelease(h handle.Handle, err error) {
	if err != nil {
		l.Warn("release failed",
			"handle", h,
			"error", err,
		)
		return
	}
	l.Debug("handle released",
		"handle", h,
	)
}

// LogDestroy logs the destruction of an index.
func (l *Logger) LogDestroy(points int, bytes int64) {
	l.Debug("index destroyed",
		"points", points,
		"bytes", bytes,
	)
}

// LogTeardown logs an identity teardown.
func (l *Logger) LogTeardown(ident *handle.Identity, freed int) {
	l.Info("identity torn down",
		"identity", ident.Name(),
		"freed", freed,
	)
}

// LogClose logs service shutdown.
func (l *Logger) LogClose(freed int, err error) {
	if err != nil {
		l.Error("close failed",
			"error", err,
		)
		return
	}
	l.Info("service closed",
		"freed", freed,
	)
}
