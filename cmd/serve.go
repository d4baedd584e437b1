package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"channelsorter/internal/config"
	"channelsorter/internal/discord"
	"channelsorter/internal/orchestrator"
	"channelsorter/pkg/logging"

	"github.com/spf13/cobra"
)

// serveCmd defines the serve command: the long-running daemon that
// reconciles every configured guild on a timer and whenever the category
// store changes.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reconciliation daemon",
	Long: `Starts the channelsorter daemon. Every sync interval (and immediately on
startup) each configured guild is reconciled: inactive channels are archived,
the remainder is partitioned alphabetically across the managed categories,
out-of-place channels are moved, and categories are renamed to their letter
spans.

Edits to the category store (via 'channelsorter categories set') are picked
up while the daemon runs and trigger an immediate pass.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := requireToken(cfg); err != nil {
		return err
	}
	if len(cfg.Guilds) == 0 {
		logging.Warn("Serve", "no guilds configured, the daemon will idle")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := discord.NewClient(cfg.Token, cfg.RequestTimeout)
	driver := orchestrator.NewDriver(api, store)
	runner := orchestrator.NewRunner(driver, cfg.Guilds, cfg.SyncInterval)

	kick := make(chan struct{}, 1)
	watcher := config.NewStoreWatcher(store.Path(), 0)
	if err := watcher.Start(ctx, kick); err != nil {
		// The daemon still works on its timer without the watcher.
		logging.Warn("Serve", "category store watcher unavailable: %v", err)
	}

	logging.Info("Serve", "daemon started, %d guilds, sync interval %s", len(cfg.Guilds), cfg.SyncInterval)
	err = runner.Run(ctx, kick)
	if errors.Is(err, context.Canceled) {
		logging.Info("Serve", "shutting down")
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
