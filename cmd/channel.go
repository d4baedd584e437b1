package cmd

import (
	"fmt"

	"channelsorter/internal/discord"
	"channelsorter/internal/orchestrator"

	"github.com/spf13/cobra"
)

var channelGuildID string

// channelCmd groups per-channel operations.
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Manage individual project channels",
}

var channelCreateCmd = &cobra.Command{
	Use:   "create NAME OWNER_USER_ID",
	Short: "Create a project channel with its owner role",
	Long: `Creates a project channel, inserts it at its sorted slot, creates and
assigns the matching owner role, applies the standard permission overwrites,
and finishes with a full sort of the guild.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		if err := requireToken(cfg); err != nil {
			return err
		}
		g, err := selectGuild(cfg, channelGuildID)
		if err != nil {
			return err
		}

		api := discord.NewClient(cfg.Token, cfg.RequestTimeout)
		driver := orchestrator.NewDriver(api, store)

		ch, err := driver.CreateProjectChannel(cmd.Context(), g, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created #%s (%s).\n", ch.Name, ch.ID)
		return nil
	},
}

var channelUnarchiveCmd = &cobra.Command{
	Use:   "unarchive CHANNEL_ID",
	Short: "Restore an archived channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		if err := requireToken(cfg); err != nil {
			return err
		}
		g, err := selectGuild(cfg, channelGuildID)
		if err != nil {
			return err
		}

		api := discord.NewClient(cfg.Token, cfg.RequestTimeout)
		driver := orchestrator.NewDriver(api, store)

		if err := driver.Unarchive(cmd.Context(), g, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unarchived channel %s.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(channelCmd)
	channelCmd.AddCommand(channelCreateCmd)
	channelCmd.AddCommand(channelUnarchiveCmd)

	channelCmd.PersistentFlags().StringVar(&channelGuildID, "guild", "", "Guild ID (optional with a single configured guild)")
}
