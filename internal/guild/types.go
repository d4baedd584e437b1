package guild

import (
	"sort"
	"time"
	"unicode"
)

// Channel is a snapshot of one text channel as observed from the remote
// store. Positions are dense, zero-based, and unique across the whole guild,
// not per category.
type Channel struct {
	// ID is the stable, opaque channel identifier (a snowflake).
	ID string

	// Name is the display name. Sorting is byte order over the raw name;
	// partition boundaries compare the uppercase first rune only.
	Name string

	// CategoryID is the parent category, empty for uncategorized channels.
	CategoryID string

	// Position in the guild-wide dense position sequence.
	Position int

	// Overwrites are the channel's permission overwrites, used to derive
	// the owner role and to apply archive transitions.
	Overwrites []PermissionOverwrite

	// LastMessageAt is the timestamp of the most recent message, nil when
	// the channel has never seen one.
	LastMessageAt *time.Time
}

// Category is an ordered container of channels. Membership is derived from
// the channels' CategoryID and Position, never stored independently.
type Category struct {
	ID   string
	Name string
}

// Role is a guild role referenced by permission overwrites.
type Role struct {
	ID   string
	Name string
}

// Slot is a target placement for a single channel: which category it belongs
// under and which guild-wide position it takes.
type Slot struct {
	CategoryID string
	Position   int
}

// OverwriteType distinguishes role and member permission overwrites.
type OverwriteType int

const (
	OverwriteRole OverwriteType = iota
	OverwriteMember
)

// Permission bits used by the archive transitions. Values follow the
// Discord permission flag encoding.
const (
	PermViewChannel    uint64 = 1 << 10
	PermSendMessages   uint64 = 1 << 11
	PermManageChannels uint64 = 1 << 4
	PermManageMessages uint64 = 1 << 13
	PermManageWebhooks uint64 = 1 << 29
	PermAddReactions   uint64 = 1 << 6
)

// OwnerPermissions is the allow mask granted to a project channel's owner
// role, both at creation and when re-granted during archiving.
const OwnerPermissions = PermViewChannel | PermSendMessages | PermManageChannels |
	PermManageMessages | PermManageWebhooks

// PermissionOverwrite is a per-target allow/deny mask on a channel.
type PermissionOverwrite struct {
	TargetID string
	Type     OverwriteType
	Allow    uint64
	Deny     uint64
}

// IsOwnerRole reports whether this overwrite marks the channel's owner role:
// a role overwrite that allows channel management. Owner resolution is this
// typed relation rather than a role-name convention; callers may still fall
// back to a name prefix for channels predating the overwrite.
func (o PermissionOverwrite) IsOwnerRole() bool {
	return o.Type == OverwriteRole && o.Allow&PermManageChannels != 0
}

// FirstLetter returns the uppercase first rune of a channel name. Partition
// boundaries are only legal where this value changes between neighbors.
func FirstLetter(name string) rune {
	for _, r := range name {
		return unicode.ToUpper(r)
	}
	return 0
}

// SortChannelsByName sorts channels in place by raw name, the same order the
// remote store's clients display them within a category.
func SortChannelsByName(channels []Channel) {
	sort.SliceStable(channels, func(i, j int) bool {
		return channels[i].Name < channels[j].Name
	})
}

// SortChannelsByPosition sorts channels in place by guild-wide position.
func SortChannelsByPosition(channels []Channel) {
	sort.SliceStable(channels, func(i, j int) bool {
		return channels[i].Position < channels[j].Position
	})
}
