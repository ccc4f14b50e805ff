package gateway

import (
	"fmt"
	"strings"

	"github.com/movaengine/runner/internal/allowlist"
)

// RunRequest is the body of POST /run.
type RunRequest struct {
	CmdID      string         `json:"cmd_id"`
	Args       map[string]any `json:"args"`
	DryRun     bool           `json:"dry_run"`
	TimeoutSec int            `json:"timeout_sec"`
}

// Validate checks request shape before any other processing: the command
// identifier must be well formed and no string argument may contain a line
// break. Deeper per-placeholder validation happens in the argv builder.
func (r *RunRequest) Validate() error {
	if !allowlist.ValidIdentifier(r.CmdID) {
		return fmt.Errorf("%w: cmd_id must contain only alphanumerics, hyphens, and underscores", ErrInvalidArgument)
	}
	for key, value := range r.Args {
		if s, ok := value.(string); ok && strings.ContainsAny(s, "\n\r") {
			return fmt.Errorf("%w: argument %s contains a line break", ErrInvalidArgument, key)
		}
	}
	if r.TimeoutSec < 0 {
		return fmt.Errorf("%w: timeout_sec must not be negative", ErrInvalidArgument)
	}
	return nil
}

// RunResponse is the body of POST /run replies. For a dry run only OK and
// Argv are set. ReturnCode is a pointer so a zero exit survives the
// omitempty handling of the other outcome fields.
type RunResponse struct {
	OK         bool     `json:"ok"`
	ID         string   `json:"id,omitempty"`
	Argv       []string `json:"argv,omitempty"`
	ReturnCode *int     `json:"returncode,omitempty"`
	StdoutTail string   `json:"stdout_tail,omitempty"`
	StderrTail string   `json:"stderr_tail,omitempty"`
	DurationMs int64    `json:"duration_ms,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// EnvelopeRequest is the body of the proxy endpoints POST /validate and
// POST /execute: a single project-relative envelope file path.
type EnvelopeRequest struct {
	File string `json:"file"`
}

// ProxyResponse wraps a relayed engine result.
type ProxyResponse struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
