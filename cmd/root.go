package cmd

import (
	"fmt"
	"os"

	"channelsorter/internal/config"
	"channelsorter/internal/guild"
	"channelsorter/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates a configuration problem the operator has to
	// fix: a missing guild, an empty managed set, a bad category ID.
	ExitCodeConfig = 2
)

var (
	rootLogLevel  string
	rootConfigDir string
)

// rootCmd represents the base command for the channelsorter application.
var rootCmd = &cobra.Command{
	Use:   "channelsorter",
	Short: "Keep Discord project channels alphabetized and tidy",
	Long: `channelsorter keeps a guild's project channels sorted: it balances
them alphabetically across the managed categories, renames each category to
its letter span ("Projects A-D"), moves only the channels that are out of
place, and archives channels that have gone quiet.

Run 'channelsorter serve' as a daemon, or use the one-shot commands (sort,
archive, categories) for manual operation.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(rootLogLevel), os.Stderr)
	},
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "channelsorter version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	if guild.IsConfigError(err) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

// configDir resolves the configuration directory, preferring the
// --config-dir flag over the per-user default.
func configDir() string {
	if rootConfigDir != "" {
		return rootConfigDir
	}
	return config.GetDefaultConfigPathOrPanic()
}

// loadEnvironment loads the configuration and category store every command
// operates on.
func loadEnvironment() (config.Config, *config.CategoryStore, error) {
	dir := configDir()
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, config.NewCategoryStore(dir), nil
}

// selectGuild resolves the guild a one-shot command targets. With a single
// configured guild the flag may be omitted.
func selectGuild(cfg config.Config, guildID string) (config.GuildConfig, error) {
	if guildID == "" {
		if len(cfg.Guilds) == 1 {
			return cfg.Guilds[0], nil
		}
		return config.GuildConfig{}, &guild.ConfigError{
			Reason: fmt.Sprintf("--guild is required with %d configured guilds", len(cfg.Guilds)),
		}
	}
	for _, g := range cfg.Guilds {
		if g.ID == guildID {
			return g, nil
		}
	}
	return config.GuildConfig{}, &guild.ConfigError{Reason: fmt.Sprintf("guild %s is not configured", guildID)}
}

// requireToken fails early when no bot token is available.
func requireToken(cfg config.Config) error {
	if cfg.Token == "" {
		return &guild.ConfigError{Reason: "no bot token: set token in config.yaml or CHANNELSORTER_TOKEN"}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootConfigDir, "config-dir", "", "Configuration directory (default ~/.config/channelsorter)")

	rootCmd.AddCommand(newVersionCmd())
}
