package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pairaudit/internal/audit"
	"pairaudit/internal/export"
	"pairaudit/internal/gemini"
	"pairaudit/internal/ingest"
	"pairaudit/internal/logging"
	"pairaudit/internal/results"
	"pairaudit/internal/snowflake"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		sourceFlag  string
		outputFlag  string
		exportAll   bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "run [file.csv]",
		Short: "Audit supplier pairs from a CSV file or the configured warehouse",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			if err := cfg.ValidateGemini(); err != nil {
				return err
			}

			rows, sourceLabel, err := loadRows(ctx, sourceFlag, args)
			if err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			auditLog := logging.NewComponentLogger(logger, "audit")

			store, err := results.Open(cfg)
			if err != nil {
				return fmt.Errorf("open results store: %w", err)
			}
			defer func() { _ = store.Close() }()

			// One audit writer per results database.
			lock := flock.New(store.Path() + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return errors.New("another audit is already running against this results database")
			}
			defer func() { _ = lock.Unlock() }()

			geminiCfg := cfg.GetGemini()
			oracle := gemini.NewClient(gemini.Config{
				APIKey:         geminiCfg.APIKey,
				BaseURL:        geminiCfg.BaseURL,
				Model:          geminiCfg.Model,
				TimeoutSeconds: geminiCfg.TimeoutSeconds,
			})

			workers := cfg.Audit.Concurrency
			if concurrency > 0 {
				workers = concurrency
			}

			out := cmd.OutOrStdout()
			controller := audit.NewController(oracle, auditLog,
				audit.WithConcurrency(workers),
				audit.WithPausePoll(time.Duration(cfg.Audit.PausePollMillis)*time.Millisecond),
				audit.WithObserver(observeItem(auditLog)),
			)
			projection := controller.Begin(rows, cfg.Audit.UnknownSupplier)

			fmt.Fprintf(out, "Auditing %d supplier pairs from %s with %d workers\n",
				projection.Len(), sourceLabel, workers)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				if _, ok := <-sigCh; ok {
					fmt.Fprintln(out, "Interrupt received, stopping batch")
					controller.Stop()
				}
			}()

			if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				fmt.Fprintln(out, "Controls: p=pause  r=resume  s=stop")
				go readControls(os.Stdin, out, controller)
			}

			if err := controller.Run(context.Background()); err != nil {
				return err
			}

			items := projection.Snapshot()
			run := results.NewRun(sourceLabel, items)
			if err := store.SaveRun(context.Background(), run, items); err != nil {
				return fmt.Errorf("save run: %w", err)
			}

			counts := projection.Counts()
			fmt.Fprintf(out, "Run %s finished: %d completed (%d matched), %d errored of %d\n",
				run.ID, counts.Completed, run.Matched, counts.Errored, counts.Total)
			if controller.Stopped() {
				fmt.Fprintln(out, "Batch was stopped before completion")
			}

			if outputFlag != "" {
				if err := export.WriteFile(outputFlag, items, exportAll); err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported results to %s\n", outputFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "csv", "Input source: csv or snowflake")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Export results to this CSV path when the run finishes")
	cmd.Flags().BoolVar(&exportAll, "all", false, "Include errored items in the export")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Override the configured worker count")
	return cmd
}

func loadRows(ctx *commandContext, source string, args []string) ([]ingest.Row, string, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", "csv":
		if len(args) == 0 {
			return nil, "", errors.New("a CSV file argument is required (or use --source snowflake)")
		}
		rows, err := ingest.DecodeCSVFile(args[0])
		if err != nil {
			return nil, "", err
		}
		return rows, args[0], nil
	case "snowflake":
		cfg := ctx.config
		if err := snowflake.ValidateConnection(cfg.Snowflake); err != nil {
			return nil, "", err
		}
		rows, err := snowflake.Rows(cfg.Snowflake)
		if err != nil {
			return nil, "", err
		}
		return rows, snowflake.TargetTable(cfg.Snowflake), nil
	default:
		return nil, "", fmt.Errorf("unknown source %q (expected csv or snowflake)", source)
	}
}

func observeItem(logger *slog.Logger) func(audit.Item) {
	return func(item audit.Item) {
		switch item.Status {
		case audit.StatusProcessing:
			logger.Info("resolving pair",
				logging.String(logging.FieldItem, item.ID),
				logging.String("supplier_a", item.SupplierA),
				logging.String("supplier_b", item.SupplierB))
		case audit.StatusCompleted:
			logger.Info("pair resolved",
				logging.String(logging.FieldItem, item.ID),
				logging.Bool("match", item.IsMatch),
				logging.String("sector_a", item.SectorA),
				logging.String("sector_b", item.SectorB))
		case audit.StatusError:
			logger.Warn("pair failed",
				logging.String(logging.FieldItem, item.ID),
				logging.String("reason", string(item.ErrorReason)),
				logging.String("error", item.ErrorMessage))
		}
	}
}

func readControls(in io.Reader, out io.Writer, controller *audit.Controller) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "p", "pause":
			controller.Pause()
			fmt.Fprintln(out, "Paused; workers finish in-flight items and wait")
		case "r", "resume":
			controller.Resume()
			fmt.Fprintln(out, "Resumed")
		case "s", "stop":
			controller.Stop()
			return
		}
	}
}
