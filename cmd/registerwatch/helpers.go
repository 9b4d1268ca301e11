package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/venueops/registerwatch/internal/config"
	"github.com/venueops/registerwatch/internal/dataset"
	"github.com/venueops/registerwatch/internal/ingest"
	"github.com/venueops/registerwatch/internal/model"
)

// loadConfig resolves the analysis configuration from viper.
func loadConfig() (config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// loadSnapshot reads an extract file into a snapshot. With raw set the file
// is treated as per-invoice rows; otherwise as a pre-aggregated volume
// export. The decoded volume rows are returned alongside so callers can
// compare uploaded classification columns against the recomputation.
func loadSnapshot(path string, raw bool, cfg config.Config) (*dataset.Snapshot, []ingest.VolumeRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open extract: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := ingest.NewReader(cfg.ElapsedTimeCapSeconds)
	src := ingest.WithProgress(f, "loading extract")

	if raw {
		invoices, err := reader.ReadInvoices(src)
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewInvoiceSnapshot(path, invoices), nil, nil
	}

	rows, err := reader.ReadVolumes(src)
	if err != nil {
		return nil, nil, err
	}
	volumes := make([]model.RegisterPeriodVolume, len(rows))
	for i, row := range rows {
		volumes[i] = row.RegisterPeriodVolume
	}
	return dataset.NewVolumeSnapshot(path, volumes), rows, nil
}

// parseIntList parses flag values like "0-12" or "0,3,5" into a list of
// integers.
func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok && lo != "" {
			start, err := strconv.Atoi(lo)
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", part, err)
			}
			end, err := strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("invalid range %q: %w", part, err)
			}
			if end < start {
				return nil, fmt.Errorf("invalid range %q: end before start", part)
			}
			for v := start; v <= end; v++ {
				out = append(out, v)
			}
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
