package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/venueops/registerwatch/internal/common"
	"github.com/venueops/registerwatch/internal/pipeline"
	"github.com/venueops/registerwatch/internal/presence"
	"github.com/venueops/registerwatch/internal/report"
)

func presenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence [extract.csv]",
		Short: "Cross-year unmanned presence matrix per store",
		Long: `Render, for every store, how many of the selected years had an unmanned
register in each day/time slot, next to how many years classified the slot
as high activity.

Examples:
  registerwatch presence volumes.csv --years 2023,2024 --days 0-12`,
		Args: cobra.ExactArgs(1),
		RunE: runPresence,
	}

	cmd.Flags().String("years", "", "years to compare, e.g. 2023,2024 (required)")
	cmd.Flags().String("days", "0-12", "day indexes to include, e.g. 0-12 or 0,3,5")
	cmd.Flags().Bool("raw", false, "treat the extract as raw per-invoice rows")
	cmd.Flags().Int("current-year", 0, "year still accumulating data, for baseline truncation")
	_ = cmd.MarkFlagRequired("years")

	return cmd
}

func runPresence(cmd *cobra.Command, args []string) error {
	yearsFlag, _ := cmd.Flags().GetString("years")
	daysFlag, _ := cmd.Flags().GetString("days")
	raw, _ := cmd.Flags().GetBool("raw")
	currentYear, _ := cmd.Flags().GetInt("current-year")

	years, err := parseIntList(yearsFlag)
	if err != nil {
		return fmt.Errorf("invalid --years: %w", err)
	}
	days, err := parseIntList(daysFlag)
	if err != nil {
		return fmt.Errorf("invalid --days: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, rows, err := loadSnapshot(args[0], raw, cfg)
	if err != nil {
		return common.NewUserError("failed to load extract", err)
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

	matrices := presence.Summarize(result.Periods, years, days)
	formatter := report.NewFormatter()
	out := cmd.OutOrStdout()

	if len(matrices) == 0 {
		fmt.Fprintln(out, formatter.FormatNoData())
		return nil
	}

	// Configured store order first, then anything else in the data.
	rendered := make(map[string]bool)
	for _, store := range cfg.Stores {
		if m, ok := matrices[store]; ok {
			fmt.Fprintln(out, formatter.FormatPresence(m))
			rendered[store] = true
		}
	}
	for _, store := range snap.Stores() {
		if m, ok := matrices[store]; ok && !rendered[store] {
			fmt.Fprintln(out, formatter.FormatPresence(m))
		}
	}

	slog.Info("Presence summary rendered",
		"stores", len(matrices),
		"years", years,
		"days", len(days))

	return nil
}
