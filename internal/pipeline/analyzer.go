// Package pipeline runs the full analysis over one dataset snapshot:
// dense grid construction, activity classification, and derived summaries.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/venueops/registerwatch/internal/classify"
	"github.com/venueops/registerwatch/internal/common"
	"github.com/venueops/registerwatch/internal/config"
	"github.com/venueops/registerwatch/internal/dataset"
	"github.com/venueops/registerwatch/internal/grid"
	"github.com/venueops/registerwatch/internal/ingest"
	"github.com/venueops/registerwatch/internal/model"
)

// Result is the classification output for one snapshot.
type Result struct {
	DayStats   map[classify.DayKey]classify.DayStats
	Volumes    []model.RegisterPeriodVolume
	Buckets    []model.BucketActivity
	Periods    []model.RegisterPeriod
	SnapshotID uuid.UUID
}

// Analyzer runs the grid builder and classifier with one configuration.
type Analyzer struct {
	cfg config.Config
	// CurrentYear marks an in-progress year for baseline truncation. Zero
	// treats all years as fully elapsed.
	CurrentYear int
}

// New creates an analyzer for the given configuration.
func New(cfg config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Run executes the pipeline over a snapshot. Raw invoice snapshots are
// aggregated into the dense grid first; volume-export snapshots are assumed
// dense upstream and classified as-is. An empty snapshot returns
// ErrEmptyDataset.
func (a *Analyzer) Run(ctx context.Context, snap *dataset.Snapshot) (*Result, error) {
	if snap == nil || snap.Empty() {
		return nil, common.ErrEmptyDataset
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	volumes := inWindowVolumes(snap.Volumes, a.cfg.OperatingWindow)
	if len(snap.Invoices) > 0 {
		builder := grid.Builder{CurrentYear: a.CurrentYear}
		volumes = builder.Build(inWindowInvoices(snap.Invoices, a.cfg.OperatingWindow))
		slog.Info("Built dense volume grid",
			"snapshot", snap.ID,
			"invoices", len(snap.Invoices),
			"grid_rows", len(volumes))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classifier := classify.New(&a.cfg, classify.Thresholds{
		HighFloor:     a.cfg.Thresholds.HighFloor,
		StdMultiplier: a.cfg.Thresholds.CutoffStdMultiplier,
	})
	classified := classifier.Classify(volumes)

	unmanned := 0
	for _, p := range classified.Periods {
		if p.Status == model.StatusUnmanned {
			unmanned++
		}
	}
	slog.Info("Classification complete",
		"snapshot", snap.ID,
		"buckets", len(classified.Buckets),
		"register_periods", len(classified.Periods),
		"unmanned_periods", unmanned)

	return &Result{
		SnapshotID: snap.ID,
		Volumes:    volumes,
		Buckets:    classified.Buckets,
		Periods:    classified.Periods,
		DayStats:   classified.DayStats,
	}, nil
}

// inWindowInvoices drops invoices whose bucket falls outside the operating
// window. Registers ring up the occasional sale before open or after close;
// those buckets are not part of the trading day.
func inWindowInvoices(invoices []model.InvoiceRecord, w config.OperatingWindow) []model.InvoiceRecord {
	out := make([]model.InvoiceRecord, 0, len(invoices))
	for _, inv := range invoices {
		if inv.TimeBucket >= w.Open && inv.TimeBucket <= w.Close {
			out = append(out, inv)
		}
	}
	return out
}

// inWindowVolumes is the volume-export counterpart of inWindowInvoices.
func inWindowVolumes(volumes []model.RegisterPeriodVolume, w config.OperatingWindow) []model.RegisterPeriodVolume {
	out := make([]model.RegisterPeriodVolume, 0, len(volumes))
	for _, v := range volumes {
		if v.TimeBucket >= w.Open && v.TimeBucket <= w.Close {
			out = append(out, v)
		}
	}
	return out
}

// CompareUploaded reports how many rows of a pre-classified upload disagree
// with the recomputed labels. Recomputed labels always win; disagreements
// are logged for operators chasing upstream drift.
func CompareUploaded(rows []ingest.VolumeRow, result *Result) (levelDiffs, statusDiffs int) {
	byKey := make(map[model.PeriodKey]model.RegisterPeriod, len(result.Periods))
	for _, p := range result.Periods {
		byKey[p.Key()] = p
	}

	for _, row := range rows {
		p, ok := byKey[row.Key()]
		if !ok {
			continue
		}
		if row.UploadedLevel != "" && row.UploadedLevel != p.Level {
			levelDiffs++
		}
		if row.UploadedStatus != "" && row.UploadedStatus != p.Status {
			statusDiffs++
		}
	}

	if levelDiffs > 0 || statusDiffs > 0 {
		slog.Debug("Uploaded classification disagrees with recomputation",
			"level_diffs", levelDiffs,
			"status_diffs", statusDiffs)
	}
	return levelDiffs, statusDiffs
}

// FilterStoreDay returns the buckets and periods of one store day, sorted.
// Returns ErrNoData when the filter matches nothing.
func (r *Result) FilterStoreDay(store string, year, day int) ([]model.BucketActivity, []model.RegisterPeriod, error) {
	var buckets []model.BucketActivity
	for _, b := range r.Buckets {
		if b.Store == store && b.Year == year && b.DayIndex == day {
			buckets = append(buckets, b)
		}
	}
	var periods []model.RegisterPeriod
	for _, p := range r.Periods {
		if p.Store == store && p.Year == year && p.DayIndex == day {
			periods = append(periods, p)
		}
	}
	if len(buckets) == 0 {
		return nil, nil, fmt.Errorf("%w: store %s year %d day %d", common.ErrNoData, store, year, day)
	}
	return buckets, periods, nil
}
