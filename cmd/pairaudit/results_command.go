package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pairaudit/internal/results"
)

func newResultsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results [run-id]",
		Short: "List stored audit runs or show one run's verdicts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := results.Open(ctx.config)
			if err != nil {
				return fmt.Errorf("open results store: %w", err)
			}
			defer func() { _ = store.Close() }()

			if len(args) == 0 {
				return listRuns(cmd, store, limit)
			}
			return showRun(cmd, store, args[0])
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func listRuns(cmd *cobra.Command, store *results.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No stored runs")
		return nil
	}
	fmt.Fprintln(out, runsTable(runs))
	return nil
}

func showRun(cmd *cobra.Command, store *results.Store, runID string) error {
	run, err := resolveRun(cmd, store, runID)
	if err != nil {
		return err
	}
	items, err := store.RunItems(cmd.Context(), run.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) from %s\n", run.ID,
		run.CreatedAt.Local().Format(time.DateTime), run.Source)
	fmt.Fprintln(out, itemsTable(items))
	return nil
}

// resolveRun accepts a run ID or the word "latest".
func resolveRun(cmd *cobra.Command, store *results.Store, runID string) (results.Run, error) {
	if runID == "latest" {
		return store.LatestRun(cmd.Context())
	}
	return store.GetRun(cmd.Context(), runID)
}
