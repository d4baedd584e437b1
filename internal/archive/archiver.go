package archive

import (
	"context"
	"strings"

	"channelsorter/internal/discord"
	"channelsorter/internal/guild"
	"channelsorter/internal/reconcile"
	"channelsorter/pkg/logging"
)

// ArchiveNotice is posted into a channel as it is archived.
const ArchiveNotice = "Archiving channel due to inactivity. " +
	"If you're the channel owner, send a message here to unarchive."

// UnarchiveNotice is posted into a channel as it returns to the active set.
const UnarchiveNotice = "Channel unarchived!"

// Archiver performs the active/archived state transitions for a channel:
// re-parenting under the archive category, restricting the default role,
// and keeping the owner role's access intact.
type Archiver struct {
	api             discord.API
	ownerRolePrefix string
}

// New creates an Archiver. ownerRolePrefix is the role-name convention used
// as a fallback to find a channel's owner role when no overwrite marks one.
func New(api discord.API, ownerRolePrefix string) *Archiver {
	return &Archiver{api: api, ownerRolePrefix: ownerRolePrefix}
}

// Archive moves a channel to the archive category and locks it down:
// the default role loses send permission, the owner role keeps full access.
// The default role of a guild shares the guild's ID.
func (a *Archiver) Archive(ctx context.Context, guildID string, ch guild.Channel, archiveCategoryID string) error {
	if err := a.api.SendMessage(ctx, ch.ID, ArchiveNotice); err != nil {
		// The notice is a courtesy; a locked-down announcement channel
		// must not block the transition itself.
		logging.Warn("Archive", "could not post archive notice in %s: %v", ch.Name, err)
	}

	if err := a.api.ModifyChannel(ctx, ch.ID, discord.ChannelPatch{
		ParentID: discord.StringPtr(archiveCategoryID),
	}); err != nil {
		return err
	}

	if err := a.api.SetChannelPermission(ctx, ch.ID, guild.PermissionOverwrite{
		TargetID: guildID,
		Type:     guild.OverwriteRole,
		Deny:     guild.PermSendMessages,
	}); err != nil {
		return err
	}

	ownerRole, ok, err := a.ownerRole(ctx, guildID, ch)
	if err != nil {
		return err
	}
	if ok {
		if err := a.api.SetChannelPermission(ctx, ch.ID, guild.PermissionOverwrite{
			TargetID: ownerRole,
			Type:     guild.OverwriteRole,
			Allow:    guild.OwnerPermissions,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Unarchive reverses the transition after someone posts in an archived
// channel: the default-role override is cleared and the channel returns to
// its sorted slot among the active peers.
func (a *Archiver) Unarchive(ctx context.Context, guildID string, ch guild.Channel, peers []guild.Channel) error {
	if err := a.api.DeleteChannelPermission(ctx, ch.ID, guildID); err != nil {
		return err
	}

	slot, err := reconcile.Reposition(ch, peers)
	if err != nil {
		return err
	}
	if err := a.api.ModifyChannel(ctx, ch.ID, discord.ChannelPatch{
		ParentID: discord.StringPtr(slot.CategoryID),
		Position: discord.IntPtr(slot.Position),
	}); err != nil {
		return err
	}

	return a.api.SendMessage(ctx, ch.ID, UnarchiveNotice)
}

// ownerRole resolves the channel's owner role. The primary relation is the
// owner-marked permission overwrite; channels predating that convention
// fall back to matching the configured role-name prefix against the guild's
// roles.
func (a *Archiver) ownerRole(ctx context.Context, guildID string, ch guild.Channel) (string, bool, error) {
	for _, o := range ch.Overwrites {
		if o.IsOwnerRole() {
			return o.TargetID, true, nil
		}
	}
	if a.ownerRolePrefix == "" {
		return "", false, nil
	}

	roles, err := a.api.GuildRoles(ctx, guildID)
	if err != nil {
		return "", false, err
	}
	byID := make(map[string]guild.Role, len(roles))
	for _, r := range roles {
		byID[r.ID] = r
	}
	for _, o := range ch.Overwrites {
		if o.Type != guild.OverwriteRole {
			continue
		}
		if r, ok := byID[o.TargetID]; ok && strings.HasPrefix(r.Name, a.ownerRolePrefix) {
			return r.ID, true, nil
		}
	}
	return "", false, nil
}
