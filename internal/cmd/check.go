package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/config"
	"github.com/movaengine/runner/internal/pathutil"
	"github.com/movaengine/runner/internal/term"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and allow-list",
	Long: `Validate the configuration and the command allow-list without starting
the server. Exits non-zero when either fails to load, so it can gate
deployments.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	term.Printf("Configuration OK: listening on %s\n", config.ListenAddr(cfg))
	term.Printf("Project root: %s\n", root)
	term.Printf("Allow-list OK: %d commands\n", store.Len())
	return nil
}
