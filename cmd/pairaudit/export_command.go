package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pairaudit/internal/export"
	"pairaudit/internal/results"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		outputFlag string
		exportAll  bool
	)

	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Write a stored run's verdicts to CSV",
		Long:  "Exports a stored run as CSV. Without a run ID the most recent run is exported.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := results.Open(ctx.config)
			if err != nil {
				return fmt.Errorf("open results store: %w", err)
			}
			defer func() { _ = store.Close() }()

			runID := "latest"
			if len(args) > 0 {
				runID = args[0]
			}
			run, err := resolveRun(cmd, store, runID)
			if err != nil {
				return err
			}
			items, err := store.RunItems(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			target := outputFlag
			if target == "" {
				target = export.DefaultFilename(ctx.config.Paths.ExportDir, time.Now())
			}
			if err := export.WriteFile(target, items, exportAll); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported run %s to %s\n", run.ID, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination CSV path (defaults under export_dir)")
	cmd.Flags().BoolVar(&exportAll, "all", false, "Include errored items, not just completed verdicts")
	return cmd
}
