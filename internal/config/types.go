package config

import "time"

// Config is the top-level configuration structure for channelsorter.
type Config struct {
	// Token is the bot token. The CHANNELSORTER_TOKEN environment
	// variable overrides it when set.
	Token string `yaml:"token,omitempty"`

	// RequestTimeout bounds each remote API call, retries included.
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`

	// SyncInterval is how often the daemon reconciles every guild.
	SyncInterval time.Duration `yaml:"syncInterval,omitempty"`

	// Guilds lists the guilds the daemon manages.
	Guilds []GuildConfig `yaml:"guilds"`
}

// GuildConfig configures one managed guild. The managed category list is
// deliberately not here: it is mutated by an admin command at runtime and
// lives in the category store next to the config file.
type GuildConfig struct {
	ID string `yaml:"id"`

	// CategoryPrefix is the display-name prefix for managed categories,
	// completed with the letter span ("Projects A-D").
	CategoryPrefix string `yaml:"categoryPrefix,omitempty"`

	// ArchiveCategory is the display name of the archive category.
	ArchiveCategory string `yaml:"archiveCategory,omitempty"`

	// LogChannel is the display name of the channel receiving run
	// summaries.
	LogChannel string `yaml:"logChannel,omitempty"`

	// OwnerRolePrefix names project-owner roles ("lang: Zig") and serves
	// as the legacy fallback for owner-role resolution.
	OwnerRolePrefix string `yaml:"ownerRolePrefix,omitempty"`

	// OwnerBaseRole is the shared role every project channel owner gets.
	OwnerBaseRole string `yaml:"ownerBaseRole,omitempty"`

	// MutedRole is the role denied posting in new project channels.
	MutedRole string `yaml:"mutedRole,omitempty"`

	// BotRole is the bot's own role, hidden from new project channels so
	// the bot's sidebar stays short.
	BotRole string `yaml:"botRole,omitempty"`

	// InactivityDays is the archive threshold in days.
	InactivityDays int `yaml:"inactivityDays,omitempty"`
}

// InactivityThreshold returns the guild's archive threshold as a duration.
func (g GuildConfig) InactivityThreshold() time.Duration {
	days := g.InactivityDays
	if days <= 0 {
		days = DefaultInactivityDays
	}
	return time.Duration(days) * 24 * time.Hour
}
