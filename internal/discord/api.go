package discord

import (
	"context"
	"time"

	"channelsorter/internal/guild"
)

// State is one read of a guild's channel tree: the text channels and the
// category containers, both with live names and positions.
type State struct {
	Channels   []guild.Channel
	Categories []guild.Category
}

// ChannelPatch is a partial update to a channel. Nil fields are left
// untouched by the remote store.
type ChannelPatch struct {
	Name       *string
	ParentID   *string
	Position   *int
	Overwrites *[]guild.PermissionOverwrite
}

// API is the remote resource surface the reconciliation engine runs
// against. The REST client implements it for production; tests use the
// in-memory Fake.
//
// Every call is a single remote round trip. Failures are reported as
// *guild.APIError and are never retried above this interface; the
// reconciliation layer decides whether to skip the item or halt the run.
type API interface {
	// GuildState lists all channels and categories of a guild.
	GuildState(ctx context.Context, guildID string) (State, error)

	// ModifyChannel applies a partial update to a text channel.
	ModifyChannel(ctx context.Context, channelID string, patch ChannelPatch) error

	// ModifyCategory renames a category container.
	ModifyCategory(ctx context.Context, categoryID, name string) error

	// CreateChannel creates a text channel under the given category.
	CreateChannel(ctx context.Context, guildID, name, parentID string) (guild.Channel, error)

	// CreateRole creates a guild role.
	CreateRole(ctx context.Context, guildID, name string, mentionable bool) (guild.Role, error)

	// GuildRoles lists all roles of a guild.
	GuildRoles(ctx context.Context, guildID string) ([]guild.Role, error)

	// AddMemberRole assigns a role to a guild member.
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error

	// SetChannelPermission creates or replaces one permission overwrite.
	SetChannelPermission(ctx context.Context, channelID string, overwrite guild.PermissionOverwrite) error

	// DeleteChannelPermission removes the overwrite for a target.
	DeleteChannelPermission(ctx context.Context, channelID, targetID string) error

	// LastMessageTime returns the timestamp of the channel's most recent
	// message, or nil when the channel has never seen one.
	LastMessageTime(ctx context.Context, channelID string) (*time.Time, error)

	// SendMessage posts a plain text message to a channel.
	SendMessage(ctx context.Context, channelID, content string) error
}

// StringPtr, IntPtr and OverwritesPtr build ChannelPatch fields without
// intermediate variables at call sites.
func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func OverwritesPtr(o []guild.PermissionOverwrite) *[]guild.PermissionOverwrite { return &o }
