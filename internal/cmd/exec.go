package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/config"
	"github.com/movaengine/runner/internal/executor"
	"github.com/movaengine/runner/internal/gateway"
	"github.com/movaengine/runner/internal/pathutil"
	"github.com/movaengine/runner/internal/term"
)

var (
	execArgs       []string
	execDryRun     bool
	execTimeoutSec int
)

var execCmd = &cobra.Command{
	Use:   "exec <cmd_id>",
	Short: "Execute an allow-listed command locally",
	Long: `Execute an allow-listed command through the same pipeline the HTTP
gateway uses, without starting the server.

Arguments are supplied as repeated --arg key=value flags. With --dry-run the
built argument vector is printed and nothing is spawned. A non-zero child exit
becomes the process exit code.`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringArrayVar(&execArgs, "arg", nil,
		"argument as key=value (repeatable)")
	execCmd.Flags().BoolVar(&execDryRun, "dry-run", false,
		"print the argument vector without executing")
	execCmd.Flags().IntVar(&execTimeoutSec, "timeout", 0,
		"execution timeout in seconds (0 uses the configured default)")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, cmdArgs []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	root, err := pathutil.CanonicalRoot(cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("project root: %w", err)
	}

	store, err := allowlist.Load(config.AllowlistPath(cfg))
	if err != nil {
		return err
	}

	values, err := parseArgFlags(execArgs)
	if err != nil {
		return err
	}

	argv, err := gateway.NewArgvBuilder(store, root).Build(cmdArgs[0], values)
	if err != nil {
		return err
	}

	if execDryRun {
		term.Println(strings.Join(argv, " "))
		return nil
	}

	timeoutSec := execTimeoutSec
	if timeoutSec <= 0 {
		timeoutSec = cfg.DefaultTimeoutSec
	}
	if timeoutSec > cfg.MaxTimeoutSec {
		timeoutSec = cfg.MaxTimeoutSec
	}

	outcome := executor.New(root).Run(cmd.Context(), argv, time.Duration(timeoutSec)*time.Second)
	if outcome.StdoutTail != "" {
		fmt.Fprint(os.Stdout, outcome.StdoutTail)
	}
	if outcome.StderrTail != "" {
		fmt.Fprint(os.Stderr, outcome.StderrTail)
	}
	if outcome.ExitCode != 0 {
		return NewExitCodeError(outcome.ExitCode)
	}
	return nil
}

// parseArgFlags turns repeated key=value flags into the argument map the
// builder expects. Values stay strings; the builder validates them per kind.
func parseArgFlags(flags []string) (map[string]any, error) {
	values := make(map[string]any, len(flags))
	for _, f := range flags {
		key, value, found := strings.Cut(f, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --arg %q, expected key=value", f)
		}
		values[key] = value
	}
	return values, nil
}
