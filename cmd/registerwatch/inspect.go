package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venueops/registerwatch/internal/common"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [extract.csv]",
		Short: "Validate an extract and print its shape",
		Long: `Check an extract against the expected schema and print the stores,
years, and day range it covers. Exits nonzero when the schema is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().Bool("raw", false, "treat the extract as raw per-invoice rows")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, _, err := loadSnapshot(args[0], raw, cfg)
	if err != nil {
		return common.NewUserError("extract rejected", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "snapshot: %s\n", snap.ID)
	fmt.Fprintf(out, "rows: %d\n", snap.Rows())
	fmt.Fprintf(out, "stores: %v\n", snap.Stores())
	fmt.Fprintf(out, "years: %v\n", snap.Years())
	if minDay, maxDay, ok := snap.DayRange(); ok {
		fmt.Fprintf(out, "day range: %d to %d\n", minDay, maxDay)
	}

	return nil
}
