package cmd

import (
	"fmt"
	"time"

	"channelsorter/internal/discord"
	"channelsorter/internal/orchestrator"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	archiveGuildID   string
	archiveChannelID string
)

// archiveCmd runs one inactivity-archiving pass, or archives a single
// channel when --channel is given.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive inactive project channels",
	Long: `Scans the managed channels and archives every one whose last message is
older than the guild's inactivity threshold. Archived channels move under the
archive category and lose send permission for everyone but the owner role.

With --channel a single channel is archived regardless of activity.`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := requireToken(cfg); err != nil {
		return err
	}
	g, err := selectGuild(cfg, archiveGuildID)
	if err != nil {
		return err
	}

	api := discord.NewClient(cfg.Token, cfg.RequestTimeout)
	driver := orchestrator.NewDriver(api, store)
	ctx := cmd.Context()

	if archiveChannelID != "" {
		if err := driver.ArchiveChannel(ctx, g, archiveChannelID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived channel %s.\n", archiveChannelID)
		return nil
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Scanning for inactive channels..."
	s.Start()
	summary, err := driver.ArchiveInactive(ctx, g, true)
	s.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Archived %d channels, skipped %d.\n", summary.Archived, summary.Skipped)
	return nil
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().StringVar(&archiveGuildID, "guild", "", "Guild ID to scan (optional with a single configured guild)")
	archiveCmd.Flags().StringVar(&archiveChannelID, "channel", "", "Archive this channel ID regardless of activity")
}
