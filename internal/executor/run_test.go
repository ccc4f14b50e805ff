package executor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunEcho(t *testing.T) {
	e := New(t.TempDir())

	out := e.Run(context.Background(), []string{"echo", "hello"}, 5*time.Second)

	if out.ExitCode != 0 {
		t.Errorf("ExitCode: got %d, want 0 (stderr: %q)", out.ExitCode, out.StderrTail)
	}
	if !strings.Contains(out.StdoutTail, "hello") {
		t.Errorf("StdoutTail should contain hello, got %q", out.StdoutTail)
	}
	if out.DurationMs < 0 {
		t.Errorf("DurationMs: got %d", out.DurationMs)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	e := New(t.TempDir())

	out := e.Run(context.Background(), []string{"sh", "-c", "echo oops >&2; exit 3"}, 5*time.Second)

	if out.ExitCode != 3 {
		t.Errorf("ExitCode: got %d, want 3", out.ExitCode)
	}
	if !strings.Contains(out.StderrTail, "oops") {
		t.Errorf("StderrTail should contain oops, got %q", out.StderrTail)
	}
}

func TestRunTimeout(t *testing.T) {
	e := New(t.TempDir())

	start := time.Now()
	out := e.Run(context.Background(), []string{"sleep", "10"}, 300*time.Millisecond)
	elapsed := time.Since(start)

	if out.ExitCode != -1 {
		t.Errorf("ExitCode: got %d, want -1", out.ExitCode)
	}
	if !out.TimedOut {
		t.Error("TimedOut should be true")
	}
	if !strings.Contains(out.StderrTail, "timed out") {
		t.Errorf("StderrTail should mention timeout, got %q", out.StderrTail)
	}
	if out.DurationMs < 300 {
		t.Errorf("DurationMs: got %d, want >= 300", out.DurationMs)
	}
	if elapsed > 5*time.Second {
		t.Errorf("run took %s, timeout not enforced", elapsed)
	}
}

func TestRunMissingExecutable(t *testing.T) {
	e := New(t.TempDir())

	out := e.Run(context.Background(), []string{"definitely-not-a-real-command-xyz"}, time.Second)

	if out.ExitCode != -1 {
		t.Errorf("ExitCode: got %d, want -1", out.ExitCode)
	}
	if !strings.Contains(out.StderrTail, "execution error") {
		t.Errorf("StderrTail should describe the spawn failure, got %q", out.StderrTail)
	}
}

func TestRunEmptyArgv(t *testing.T) {
	e := New(t.TempDir())

	out := e.Run(context.Background(), nil, time.Second)

	if out.ExitCode != -1 {
		t.Errorf("ExitCode: got %d, want -1", out.ExitCode)
	}
}

func TestRunTruncatesOutput(t *testing.T) {
	e := New(t.TempDir())

	// 8000 x's on stdout; the tail must be exactly the trailing 4000.
	out := e.Run(context.Background(), []string{"sh", "-c", `printf 'x%.0s' $(seq 8000)`}, 10*time.Second)

	if out.ExitCode != 0 {
		t.Fatalf("ExitCode: got %d (stderr: %q)", out.ExitCode, out.StderrTail)
	}
	if len(out.StdoutTail) != TailLimit {
		t.Errorf("StdoutTail length: got %d, want %d", len(out.StdoutTail), TailLimit)
	}
	if strings.Trim(out.StdoutTail, "x") != "" {
		t.Errorf("StdoutTail should be all x's")
	}
}

func TestRunMinimalEnvironment(t *testing.T) {
	root := t.TempDir()
	e := New(root)
	t.Setenv("RUNNER_TEST_SECRET", "leaky")

	out := e.Run(context.Background(), []string{"env"}, 5*time.Second)

	if out.ExitCode != 0 {
		t.Fatalf("ExitCode: got %d (stderr: %q)", out.ExitCode, out.StderrTail)
	}
	if strings.Contains(out.StdoutTail, "RUNNER_TEST_SECRET") {
		t.Error("child environment leaked a parent variable")
	}
	if !strings.Contains(out.StdoutTail, "PROJECT_ROOT="+root) {
		t.Errorf("child should see PROJECT_ROOT, got %q", out.StdoutTail)
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	e := New(root)

	out := e.Run(context.Background(), []string{"pwd"}, 5*time.Second)

	if out.ExitCode != 0 {
		t.Fatalf("ExitCode: got %d", out.ExitCode)
	}
	if strings.TrimSpace(out.StdoutTail) != root {
		t.Errorf("pwd: got %q, want %q", strings.TrimSpace(out.StdoutTail), root)
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "shorter than limit", in: "abc", limit: 5, want: "abc"},
		{name: "equal to limit", in: "abcde", limit: 5, want: "abcde"},
		{name: "longer than limit", in: "abcdefgh", limit: 5, want: "defgh"},
		{name: "multibyte runes kept whole", in: "ααββγγ", limit: 4, want: "ββγγ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tail(tt.in, tt.limit); got != tt.want {
				t.Errorf("Tail(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}
