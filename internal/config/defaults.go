package config

import "time"

// Defaults applied to unset fields after loading.
const (
	DefaultCategoryPrefix  = "Projects"
	DefaultArchiveCategory = "Archive"
	DefaultLogChannel      = "channelbot-logs"
	DefaultOwnerRolePrefix = "lang: "
	DefaultOwnerBaseRole   = "Lang Channel Owner"
	DefaultMutedRole       = "muted"
	DefaultBotRole         = "Channel Bot"
	DefaultInactivityDays  = 90

	DefaultRequestTimeout = 15 * time.Second
	DefaultSyncInterval   = time.Hour
)

// GetDefaultConfig returns the configuration used when no config file
// exists: sane intervals, no guilds.
func GetDefaultConfig() Config {
	return Config{
		RequestTimeout: DefaultRequestTimeout,
		SyncInterval:   DefaultSyncInterval,
	}
}

// applyDefaults fills unset fields in place.
func applyDefaults(c *Config) {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.SyncInterval == 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	for i := range c.Guilds {
		g := &c.Guilds[i]
		if g.CategoryPrefix == "" {
			g.CategoryPrefix = DefaultCategoryPrefix
		}
		if g.ArchiveCategory == "" {
			g.ArchiveCategory = DefaultArchiveCategory
		}
		if g.LogChannel == "" {
			g.LogChannel = DefaultLogChannel
		}
		if g.OwnerRolePrefix == "" {
			g.OwnerRolePrefix = DefaultOwnerRolePrefix
		}
		if g.OwnerBaseRole == "" {
			g.OwnerBaseRole = DefaultOwnerBaseRole
		}
		if g.MutedRole == "" {
			g.MutedRole = DefaultMutedRole
		}
		if g.BotRole == "" {
			g.BotRole = DefaultBotRole
		}
		if g.InactivityDays == 0 {
			g.InactivityDays = DefaultInactivityDays
		}
	}
}
