package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Executor runs argument vectors rooted at a fixed project directory.
type Executor struct {
	// Root is the canonical project root: the child's working directory
	// and the value of its PROJECT_ROOT variable.
	Root string
}

// New creates an Executor for the given project root.
func New(root string) *Executor {
	return &Executor{Root: root}
}

// Run executes argv as a child process. The child gets an explicit two-entry
// environment (PATH and PROJECT_ROOT), the project root as working directory,
// and is killed when timeout elapses. Spawn failures never propagate as
// errors; every failure mode is folded into the returned Outcome with
// ExitCode -1 and a descriptive stderr tail.
func (e *Executor) Run(ctx context.Context, argv []string, timeout time.Duration) Outcome {
	start := time.Now()

	if len(argv) == 0 {
		return Outcome{
			ExitCode:   -1,
			StderrTail: "execution error: empty argument vector",
		}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.Root
	cmd.Env = []string{
		"PATH=" + ChildPath,
		"PROJECT_ROOT=" + e.Root,
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	elapsed := time.Since(start)

	out := Outcome{
		StdoutTail: Tail(stdout.String(), TailLimit),
		StderrTail: Tail(stderr.String(), TailLimit),
		DurationMs: elapsed.Milliseconds(),
	}

	if err == nil {
		return out
	}

	if ctx.Err() == context.DeadlineExceeded {
		out.ExitCode = -1
		out.TimedOut = true
		out.StderrTail = fmt.Sprintf("command timed out after %s", timeout)
		return out
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out
	}

	// Spawn failure: executable missing, permission denied, and similar.
	out.ExitCode = -1
	out.StderrTail = "execution error: " + err.Error()
	return out
}
