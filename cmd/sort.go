package cmd

import (
	"fmt"
	"time"

	"channelsorter/internal/discord"
	"channelsorter/internal/orchestrator"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	sortGuildID string
	sortDryRun  bool
)

// sortCmd triggers one reconciliation of a guild's channel layout.
var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort a guild's project channels once",
	Long: `Partitions the managed channels alphabetically across the managed
categories, moves the channels that are out of place, and renames each
category to its letter span.

With --dry-run the planned moves and renames are printed as a table and
nothing is changed.`,
	Args: cobra.NoArgs,
	RunE: runSort,
}

func runSort(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := requireToken(cfg); err != nil {
		return err
	}
	g, err := selectGuild(cfg, sortGuildID)
	if err != nil {
		return err
	}

	api := discord.NewClient(cfg.Token, cfg.RequestTimeout)
	driver := orchestrator.NewDriver(api, store)
	ctx := cmd.Context()

	if sortDryRun {
		plan, err := driver.PlanOnly(ctx, g)
		if err != nil {
			return err
		}
		renderPlan(cmd, plan)
		return nil
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Sorting channels..."
	s.Start()
	summary, err := driver.Sort(ctx, g, true)
	s.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sorted guild %s: %s\n", g.ID, summary)
	return nil
}

// renderPlan prints the dry-run mutation plan.
func renderPlan(cmd *cobra.Command, plan *orchestrator.Plan) {
	out := cmd.OutOrStdout()
	if len(plan.Moves) == 0 && len(plan.Renames) == 0 {
		fmt.Fprintln(out, text.FgGreen.Sprint("Nothing to do, the guild is already sorted."))
		return
	}

	if len(plan.Moves) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"CHANNEL", "CATEGORY", "POSITION"})
		for _, mv := range plan.Moves {
			t.AppendRow(table.Row{mv.ChannelName, mv.CategoryID, mv.Position})
		}
		t.Render()
	}
	if len(plan.Renames) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"CATEGORY", "CURRENT NAME", "NEW NAME"})
		for _, rn := range plan.Renames {
			t.AppendRow(table.Row{rn.CategoryID, rn.OldName, rn.NewName})
		}
		t.Render()
	}
	fmt.Fprintf(out, "%d moves, %d renames planned.\n", len(plan.Moves), len(plan.Renames))
}

func init() {
	rootCmd.AddCommand(sortCmd)

	sortCmd.Flags().StringVar(&sortGuildID, "guild", "", "Guild ID to sort (optional with a single configured guild)")
	sortCmd.Flags().BoolVar(&sortDryRun, "dry-run", false, "Print the planned moves and renames without applying them")
}
