// Package classify labels time buckets with activity levels and registers
// with manned/unmanned statuses.
//
// Levels are relative to each day's own distribution: the cutoffs are the
// day mean of per-bucket invoice totals plus/minus a configured multiple of
// their sample standard deviation. A High label additionally requires an
// absolute volume floor, so a quiet day with low variance cannot produce
// spurious High buckets. A register-period is Unmanned only when its bucket
// is High, its own count is exactly zero, and the device is a standard
// staffed register.
package classify

import (
	"math"
	"sort"

	"github.com/venueops/registerwatch/internal/model"
)

// Thresholds controls the level cutoffs.
type Thresholds struct {
	HighFloor     int
	StdMultiplier float64
}

// DefaultThresholds returns the deployed cutoff parameters.
func DefaultThresholds() Thresholds {
	return Thresholds{HighFloor: 25, StdMultiplier: 0.5}
}

// DeviceTyper resolves a register's device type. Configuration-backed
// implementations take precedence over any device type carried in uploaded
// data.
type DeviceTyper interface {
	DeviceType(registerID string, year int) model.DeviceType
}

// DayKey identifies one store day.
type DayKey struct {
	Store    string
	Year     int
	DayIndex int
}

// DayStats holds the per-day distribution of bucket totals and the derived
// cutoffs.
type DayStats struct {
	Buckets    int
	Mean       float64
	Std        float64
	CutoffLow  float64
	CutoffHigh float64
}

// Result is the full classification output for one volume grid.
type Result struct {
	DayStats map[DayKey]DayStats
	Buckets  []model.BucketActivity
	Periods  []model.RegisterPeriod
}

// Classifier applies the activity-level and register-status rules.
type Classifier struct {
	devices    DeviceTyper
	thresholds Thresholds
}

// New creates a classifier with the given device table and thresholds.
func New(devices DeviceTyper, thresholds Thresholds) *Classifier {
	return &Classifier{
		devices:    devices,
		thresholds: thresholds,
	}
}

// Classify derives bucket activity levels and register statuses from a dense
// volume grid. The grid must already contain explicit zero rows; absent
// rows are not classified.
func (c *Classifier) Classify(volumes []model.RegisterPeriodVolume) *Result {
	totals := bucketTotals(volumes)
	stats := dayStats(totals, c.thresholds)

	buckets := make([]model.BucketActivity, 0, len(totals))
	for key, total := range totals {
		day := DayKey{Store: key.Store, Year: key.Year, DayIndex: key.DayIndex}
		buckets = append(buckets, model.BucketActivity{
			BucketKey:   key,
			BucketTotal: total,
			Level:       c.level(total, stats[day]),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		a, z := buckets[i], buckets[j]
		if a.Store != z.Store {
			return a.Store < z.Store
		}
		if a.Year != z.Year {
			return a.Year < z.Year
		}
		if a.DayIndex != z.DayIndex {
			return a.DayIndex < z.DayIndex
		}
		return a.TimeBucket < z.TimeBucket
	})

	levels := make(map[model.BucketKey]model.ActivityLevel, len(buckets))
	for _, b := range buckets {
		levels[b.BucketKey] = b.Level
	}

	periods := make([]model.RegisterPeriod, 0, len(volumes))
	for _, v := range volumes {
		level := levels[v.Key().BucketKey]
		device := c.devices.DeviceType(v.RegisterID, v.Year)

		status := model.StatusManned
		if level == model.ActivityHigh && v.InvoiceCount == 0 && device == model.DeviceStandard {
			status = model.StatusUnmanned
		}

		periods = append(periods, model.RegisterPeriod{
			RegisterPeriodVolume: v,
			DeviceType:           device,
			Level:                level,
			Status:               status,
		})
	}

	return &Result{
		Buckets:  buckets,
		Periods:  periods,
		DayStats: stats,
	}
}

// level applies the labeling rule to one bucket total.
func (c *Classifier) level(total int, stats DayStats) model.ActivityLevel {
	t := float64(total)
	switch {
	case total >= c.thresholds.HighFloor && t >= stats.CutoffHigh:
		return model.ActivityHigh
	case t < stats.CutoffLow:
		return model.ActivityLow
	default:
		return model.ActivityMid
	}
}

// bucketTotals sums invoice counts across registers per bucket.
func bucketTotals(volumes []model.RegisterPeriodVolume) map[model.BucketKey]int {
	totals := make(map[model.BucketKey]int)
	for _, v := range volumes {
		totals[v.Key().BucketKey] += v.InvoiceCount
	}
	return totals
}

// dayStats computes the mean, sample standard deviation, and cutoffs of the
// bucket totals within each store day. A day with a single bucket has an
// undefined standard deviation; it is treated as zero so both cutoffs
// collapse to the mean.
func dayStats(totals map[model.BucketKey]int, thresholds Thresholds) map[DayKey]DayStats {
	grouped := make(map[DayKey][]int)
	for key, total := range totals {
		day := DayKey{Store: key.Store, Year: key.Year, DayIndex: key.DayIndex}
		grouped[day] = append(grouped[day], total)
	}

	stats := make(map[DayKey]DayStats, len(grouped))
	for day, values := range grouped {
		mean := meanOf(values)
		std := sampleStd(values, mean)
		stats[day] = DayStats{
			Buckets:    len(values),
			Mean:       mean,
			Std:        std,
			CutoffLow:  mean - thresholds.StdMultiplier*std,
			CutoffHigh: mean + thresholds.StdMultiplier*std,
		}
	}
	return stats
}

func meanOf(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func sampleStd(values []int, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := float64(v) - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
