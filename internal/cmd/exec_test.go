package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/movaengine/runner/internal/config"
)

// writeTestProject lays out a temp project root with a config file and an
// allow-list, pins the environment overrides to it, and points the shared
// --config value at the file.
func writeTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	allow := `
commands:
  echo_test:
    - echo
    - msg: {type: string, required: true}
  fail_test:
    - sh
    - -c
    - exit 3
`
	if err := os.WriteFile(filepath.Join(root, "runner.allowlist.yaml"), []byte(allow), 0640); err != nil {
		t.Fatalf("write allowlist: %v", err)
	}

	cfgYAML := "project_root: " + root + "\n"
	cfgFile := filepath.Join(root, "runner.yaml")
	if err := os.WriteFile(cfgFile, []byte(cfgYAML), 0640); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Pin the overrides so an ambient environment cannot redirect the test.
	t.Setenv(config.EnvProjectRoot, root)
	t.Setenv(config.EnvAllowlist, "runner.allowlist.yaml")

	prev := configPath
	configPath = cfgFile
	t.Cleanup(func() { configPath = prev })

	return root
}

func resetExecFlags(t *testing.T) {
	t.Helper()
	prevArgs, prevDry, prevTimeout := execArgs, execDryRun, execTimeoutSec
	t.Cleanup(func() {
		execArgs, execDryRun, execTimeoutSec = prevArgs, prevDry, prevTimeout
	})
	execArgs = nil
	execDryRun = false
	execTimeoutSec = 0
}

func TestParseArgFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "empty",
			flags: nil,
			want:  map[string]any{},
		},
		{
			name:  "single pair",
			flags: []string{"msg=hello"},
			want:  map[string]any{"msg": "hello"},
		},
		{
			name:  "value containing equals",
			flags: []string{"expr=a=b"},
			want:  map[string]any{"expr": "a=b"},
		},
		{
			name:  "empty value allowed",
			flags: []string{"msg="},
			want:  map[string]any{"msg": ""},
		},
		{
			name:    "missing separator",
			flags:   []string{"justakey"},
			wantErr: true,
		},
		{
			name:    "empty key",
			flags:   []string{"=value"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgFlags(tt.flags)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgFlags: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseArgFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunExec_DryRun(t *testing.T) {
	writeTestProject(t)
	resetExecFlags(t)
	execDryRun = true
	execArgs = []string{"msg=hello"}
	execCmd.SetContext(context.Background())

	if err := runExec(execCmd, []string{"echo_test"}); err != nil {
		t.Fatalf("runExec dry-run: %v", err)
	}
}

func TestRunExec_UnknownCommand(t *testing.T) {
	writeTestProject(t)
	resetExecFlags(t)
	execCmd.SetContext(context.Background())

	if err := runExec(execCmd, []string{"not_listed"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRunExec_PropagatesExitCode(t *testing.T) {
	writeTestProject(t)
	resetExecFlags(t)
	execCmd.SetContext(context.Background())

	err := runExec(execCmd, []string{"fail_test"})
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) {
		t.Fatalf("got %v, want ExitCodeError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
}

func TestRunExec_Success(t *testing.T) {
	writeTestProject(t)
	resetExecFlags(t)
	execArgs = []string{"msg=hi"}
	execCmd.SetContext(context.Background())

	if err := runExec(execCmd, []string{"echo_test"}); err != nil {
		t.Fatalf("runExec: %v", err)
	}
}
