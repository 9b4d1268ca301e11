package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/venueops/registerwatch/internal/common"
	"github.com/venueops/registerwatch/internal/pipeline"
	"github.com/venueops/registerwatch/internal/report"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [extract.csv]",
		Short: "Single-day drill-down for one store",
		Long: `Classify one store day and render the activity breakdown, the
register-by-bucket status grid, and the day's summary statistics.

Examples:
  # Drill into store 11G on day 3 of the 2024 event
  registerwatch analyze volumes.csv --store 11G --year 2024 --day 3

  # Aggregate raw invoice rows first, truncating the in-progress year
  registerwatch analyze invoices.csv --raw --current-year 2024 --store S2 --year 2024 --day 0`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("store", "", "store code (required)")
	cmd.Flags().Int("year", 0, "event year (required)")
	cmd.Flags().Int("day", 0, "day index relative to the event anchor date")
	cmd.Flags().Bool("raw", false, "treat the extract as raw per-invoice rows")
	cmd.Flags().Int("current-year", 0, "year still accumulating data, for baseline truncation")
	_ = cmd.MarkFlagRequired("store")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	store, _ := cmd.Flags().GetString("store")
	year, _ := cmd.Flags().GetInt("year")
	day, _ := cmd.Flags().GetInt("day")
	raw, _ := cmd.Flags().GetBool("raw")
	currentYear, _ := cmd.Flags().GetInt("current-year")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, rows, err := loadSnapshot(args[0], raw, cfg)
	if err != nil {
		return common.NewUserError("failed to load extract", err)
	}
	slog.Info("Loaded extract",
		"snapshot", snap.ID,
		"rows", snap.Rows(),
		"stores", snap.Stores(),
		"years", snap.Years())

	if !slices.Contains(snap.Stores(), store) {
		return fmt.Errorf("%w: %s is not in the extract", common.ErrUnknownStore, store)
	}

	analyzer := pipeline.New(cfg)
	analyzer.CurrentYear = currentYear

	result, err := analyzer.Run(cmd.Context(), snap)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		pipeline.CompareUploaded(rows, result)
	}

	formatter := report.NewFormatter()

	summary, err := result.DaySummary(store, year, day)
	if errors.Is(err, common.ErrNoData) {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNoData())
		return nil
	}
	if err != nil {
		return err
	}

	buckets, periods, err := result.FilterStoreDay(store, year, day)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatter.FormatBreakdown(summary, buckets))
	fmt.Fprintln(out, formatter.FormatRegisterTable(summary, periods))
	fmt.Fprintln(out, formatter.FormatDaySummary(summary))

	return nil
}
