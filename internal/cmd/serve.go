package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/audit"
	"github.com/movaengine/runner/internal/config"
	"github.com/movaengine/runner/internal/engine"
	"github.com/movaengine/runner/internal/gateway"
	"github.com/movaengine/runner/internal/logging"
	"github.com/movaengine/runner/internal/pathutil"
)

// engineProbeTimeout bounds the startup connectivity check. The probe is
// advisory; the gateway serves even when the engine is down.
const engineProbeTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway HTTP server",
	Long: `Start the gateway HTTP server.

Loads the configuration and the command allow-list, probes the workflow engine,
and serves until interrupted. A missing or malformed allow-list is fatal; an
unreachable engine is only a warning since local execution does not need it.`,
	RunE: runServe,
}

var (
	serveBind string
	servePort int
)

func init() {
	serveCmd.Flags().StringVar(&serveBind, "bind", "", "listen address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveBind != "" {
		cfg.Bind = serveBind
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logging.Init(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})

	root, err := pathutil.CanonicalRoot(cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("project root: %w", err)
	}

	store, err := allowlist.Load(config.AllowlistPath(cfg))
	if err != nil {
		return err
	}

	engineClient := engine.NewClient(cfg.Engine.BaseURL, cfg.EngineTimeout())
	probeCtx, cancel := context.WithTimeout(cmd.Context(), engineProbeTimeout)
	if probeErr := engineClient.Health(probeCtx); probeErr != nil {
		logging.Warn().Err(probeErr).Str("engine", cfg.Engine.BaseURL).
			Msg("workflow engine unreachable at startup, proxy endpoints will fail")
	}
	cancel()

	srv := gateway.New(cfg, root, store, engineClient, audit.NewLogger(os.Stdout))
	if err := srv.Start(config.ListenAddr(cfg)); err != nil {
		return err
	}

	logging.Info().
		Str("addr", srv.ListenAddr()).
		Str("project_root", root).
		Int("commands", store.Len()).
		Msg("gateway listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logging.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
