package orchestrator

import (
	"context"
	"time"

	"channelsorter/internal/config"
	"channelsorter/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Runner drives the periodic reconciliation loop: every tick (and on every
// category-store change signal) it reconciles all configured guilds
// concurrently. One guild's failure never aborts the others; errors are
// logged and the next tick retries from fresh state.
type Runner struct {
	driver   *Driver
	guilds   []config.GuildConfig
	interval time.Duration
}

// NewRunner creates a Runner over the configured guilds.
func NewRunner(driver *Driver, guilds []config.GuildConfig, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}
	return &Runner{driver: driver, guilds: guilds, interval: interval}
}

// Run blocks until the context is cancelled. The kick channel may be nil;
// when wired to a config.StoreWatcher it triggers an immediate pass after
// an admin edits the managed set.
func (r *Runner) Run(ctx context.Context, kick <-chan struct{}) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// First pass right away; a daemon that waits an hour before doing
	// anything is indistinguishable from a broken one.
	r.reconcileAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.reconcileAll(ctx)
		case <-kick:
			logging.Info("Runner", "category store changed, reconciling now")
			r.reconcileAll(ctx)
		}
	}
}

func (r *Runner) reconcileAll(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	for _, gc := range r.guilds {
		gc := gc
		g.Go(func() error {
			summary, err := r.driver.Run(ctx, gc, false)
			if err != nil {
				// Isolated per guild: log and keep the group alive.
				logging.Error("Runner", err, "reconciliation of guild %s failed (%s)", gc.ID, summary)
				return nil
			}
			if summary.Changed() {
				logging.Info("Runner", "guild %s: %s", gc.ID, summary)
			}
			return nil
		})
	}
	g.Wait()
}
