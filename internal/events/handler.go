package events

import (
	"context"

	"channelsorter/internal/config"
	"channelsorter/internal/guild"
	"channelsorter/internal/orchestrator"
	"channelsorter/pkg/logging"
)

// MessageEvent is a message posted in some channel.
type MessageEvent struct {
	GuildID   string
	ChannelID string
}

// RenameEvent is a channel display-name change.
type RenameEvent struct {
	GuildID   string
	ChannelID string
	OldName   string
	NewName   string
}

// Handler reacts to gateway events between scheduled runs: a message in an
// archived channel unarchives it, a rename of a managed channel moves it
// back to its sorted slot. The transport feeding it is external glue; the
// handler only needs the events themselves.
type Handler struct {
	driver *orchestrator.Driver
	guilds map[string]config.GuildConfig
}

// NewHandler creates a Handler for the configured guilds.
func NewHandler(driver *orchestrator.Driver, guilds []config.GuildConfig) *Handler {
	byID := make(map[string]config.GuildConfig, len(guilds))
	for _, g := range guilds {
		byID[g.ID] = g
	}
	return &Handler{driver: driver, guilds: byID}
}

// HandleMessage unarchives the channel if the message landed under the
// archive category. Messages anywhere else are ignored.
func (h *Handler) HandleMessage(ctx context.Context, ev MessageEvent) error {
	g, ok := h.guilds[ev.GuildID]
	if !ok {
		return nil
	}
	archived, err := h.driver.IsArchived(ctx, g, ev.ChannelID)
	if err != nil || !archived {
		return err
	}
	logging.Info("Events", "message in archived channel %s, unarchiving", ev.ChannelID)
	return h.driver.Unarchive(ctx, g, ev.ChannelID)
}

// HandleRename repositions a renamed managed channel. Renames of channels
// outside the managed set are ignored, as are no-op renames.
func (h *Handler) HandleRename(ctx context.Context, ev RenameEvent) error {
	g, ok := h.guilds[ev.GuildID]
	if !ok || ev.OldName == ev.NewName {
		return nil
	}
	logging.Info("Events", "channel renamed: %s -> %s", ev.OldName, ev.NewName)
	err := h.driver.RepositionChannel(ctx, g, ev.ChannelID)
	if guild.IsConfigError(err) {
		// Not a managed channel; nothing to do.
		logging.Debug("Events", "ignoring rename of unmanaged channel %s", ev.ChannelID)
		return nil
	}
	return err
}
