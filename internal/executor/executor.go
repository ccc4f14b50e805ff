// Package executor runs fully-resolved argument vectors as child processes
// with a bounded timeout, a minimal environment, and bounded captured output.
package executor

// TailLimit is the maximum number of characters retained per output stream.
// Streams are captured in full internally and truncated to their trailing
// TailLimit characters before being returned.
const TailLimit = 4000

// ChildPath is the only PATH the child process sees. The gateway's own
// environment is never inherited, so secrets in it cannot leak into children.
const ChildPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// Outcome is the result of one process execution. It is immutable once
// produced and is never persisted beyond the audit line and the HTTP
// response. ExitCode is -1 for timeouts and spawn failures.
type Outcome struct {
	ExitCode   int
	StdoutTail string
	StderrTail string
	DurationMs int64
	TimedOut   bool
}

// Tail returns the trailing limit characters of s. Truncation counts
// characters, not bytes, so a multi-byte rune is never split.
func Tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[len(runes)-limit:])
}
