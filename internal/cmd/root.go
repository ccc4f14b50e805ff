// Package cmd implements the CLI commands for the runner gateway.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/movaengine/runner/internal/term"
	"github.com/movaengine/runner/internal/version"
)

// configPath is the --config flag value, shared by all subcommands.
var configPath string

// silentMode is the --silent flag value.
var silentMode bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Command-execution gateway for the workflow engine",
	Long: `Runner is a small HTTP gateway that executes a fixed allow-list of commands
inside a project root and proxies envelope operations to a remote workflow engine.

Every execution request is checked against the allow-list, its path arguments are
confined to the project root, and the spawned process runs with a minimal
environment, a bounded timeout, and truncated output capture.`,
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		term.SetSilent(silentMode)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&silentMode, "silent", false,
		"suppress normal output")
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}
