package orchestrator

import (
	"context"
	"fmt"

	"channelsorter/internal/discord"
	"channelsorter/pkg/logging"
)

// Notifier posts human-readable run output to a guild's log channel.
// Verbose notifiers announce every step (manual commands); quiet ones only
// speak when something changed (the hourly run). A nil Notifier is valid
// and drops everything, so callers never need to branch.
type Notifier struct {
	api       discord.API
	channelID string
	verbose   bool
}

// NewNotifier creates a notifier for the given log channel.
func NewNotifier(api discord.API, channelID string, verbose bool) *Notifier {
	return &Notifier{api: api, channelID: channelID, verbose: verbose}
}

// Stepf announces an intermediate step. Dropped unless verbose.
func (n *Notifier) Stepf(ctx context.Context, format string, args ...interface{}) {
	if n == nil || !n.verbose {
		return
	}
	n.post(ctx, fmt.Sprintf(format, args...))
}

// Resultf announces an outcome. Posted when verbose or when changed is
// true, matching the original bot's quiet-on-success hourly behavior.
func (n *Notifier) Resultf(ctx context.Context, changed bool, format string, args ...interface{}) {
	if n == nil || (!n.verbose && !changed) {
		return
	}
	n.post(ctx, fmt.Sprintf(format, args...))
}

func (n *Notifier) post(ctx context.Context, msg string) {
	if err := n.api.SendMessage(ctx, n.channelID, msg); err != nil {
		// Log-channel delivery is best effort; the run itself already
		// logged through the structured logger.
		logging.Warn("Driver", "could not post to log channel: %v", err)
	}
}
