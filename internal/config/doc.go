// Package config loads channelsorter's YAML configuration and persists the
// managed-category lists.
//
// Two files live under ~/.config/channelsorter:
//
//   - config.yaml: static settings (token, guilds, thresholds). Read once
//     at startup, defaults merged under missing keys.
//   - categories.yaml: the ordered managed category IDs per guild. Written
//     by the "categories set" admin command and re-read at the start of
//     every operation; a StoreWatcher lets the daemon react to edits
//     between ticks.
package config
