// Package audit emits one structured log line per executed command. Lines are
// newline-delimited JSON on the configured writer (stdout in the daemon), the
// only record of command history the gateway keeps.
package audit

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger writes execution journal entries. A nil Logger discards entries so
// callers never need to guard their logging.
type Logger struct {
	zl  zerolog.Logger
	now func() time.Time
}

// NewLogger creates an audit logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		zl:  zerolog.New(w),
		now: time.Now,
	}
}

// LogExecution records a completed (or failed) command execution.
// Field layout: {ts, id, action, argv, rc, duration_ms}.
func (l *Logger) LogExecution(id, action string, argv []string, exitCode int, duration time.Duration) {
	if l == nil {
		return
	}
	l.zl.Log().
		Str("ts", l.now().UTC().Format(time.RFC3339)).
		Str("id", id).
		Str("action", action).
		Strs("argv", argv).
		Int("rc", exitCode).
		Int64("duration_ms", duration.Milliseconds()).
		Send()
}
