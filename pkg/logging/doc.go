// Package logging provides channelsorter's structured logging built on Go's
// standard slog package.
//
// All log entries carry a subsystem identifier for filtering, a formatted
// message, and an optional error. The logger is initialized once at startup
// via Init with the level taken from the --log-level flag.
//
// Usage:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Driver", "reconciling guild %s", guildID)
//	logging.Error("Discord", err, "channel edit failed")
//
// Subsystems in use: Bootstrap, Config, Driver, Partition, Reconcile,
// Archive, Discord, Events.
package logging
