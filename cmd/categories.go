package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var categoriesGuildID string

// categoriesCmd groups the managed-category administration commands.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Inspect or change the managed category list",
	Long: `The managed category list controls which categories channelsorter
partitions channels into and in what order. It lives in categories.yaml next
to the config file; a running daemon picks up changes immediately.`,
}

var categoriesGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a guild's managed categories in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		g, err := selectGuild(cfg, categoriesGuildID)
		if err != nil {
			return err
		}
		ids, err := store.Get(g.ID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No managed categories configured for guild %s.\n", g.ID)
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"#", "CATEGORY ID"})
		for i, id := range ids {
			t.AppendRow(table.Row{i + 1, id})
		}
		t.Render()
		return nil
	},
}

var categoriesSetCmd = &cobra.Command{
	Use:   "set CATEGORY_ID...",
	Short: "Replace a guild's managed category list",
	Long: `Replaces the ordered managed category list for a guild. The order given
here is the order channels are partitioned into. A running daemon reconciles
immediately after the change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		g, err := selectGuild(cfg, categoriesGuildID)
		if err != nil {
			return err
		}
		if err := store.Set(g.ID, args); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Guild %s now manages %d categories.\n", g.ID, len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesGetCmd)
	categoriesCmd.AddCommand(categoriesSetCmd)

	categoriesCmd.PersistentFlags().StringVar(&categoriesGuildID, "guild", "", "Guild ID (optional with a single configured guild)")
}
