// Package grid builds the dense register-period volume grid that
// classification runs against. Register-period combinations without invoices
// must appear as explicit zero rows: a bucket with no sales still has to be
// compared against the day's activity cutoffs.
package grid

import (
	"sort"

	"github.com/venueops/registerwatch/internal/model"
)

// Builder aggregates raw invoices into the dense grid.
type Builder struct {
	// CurrentYear marks a year that is still accumulating data. Its baseline
	// is truncated at the latest observed moment so that future buckets are
	// not misread as real zero-activity periods. Zero means every observed
	// year is treated as fully elapsed.
	CurrentYear int
}

// storeYear scopes the baseline domains; register sets and day ranges differ
// per store and per year.
type storeYear struct {
	store string
	year  int
}

// Build groups invoices by (store, year, day, bucket, register) and
// left-joins the sums onto the per-year dense baseline, zero-filling gaps.
// Each store is handled independently. A year with no invoices contributes
// no baseline and is absent from the output.
func (b *Builder) Build(invoices []model.InvoiceRecord) []model.RegisterPeriodVolume {
	sums := make(map[model.PeriodKey]*model.RegisterPeriodVolume)
	days := make(map[storeYear]map[int]bool)
	buckets := make(map[storeYear]map[float64]bool)
	registers := make(map[storeYear]map[string]bool)
	maxDay := make(map[storeYear]int)

	for _, inv := range invoices {
		sy := storeYear{store: inv.Store, year: inv.Year}

		if days[sy] == nil {
			days[sy] = make(map[int]bool)
			buckets[sy] = make(map[float64]bool)
			registers[sy] = make(map[string]bool)
			maxDay[sy] = inv.DayIndex
		}
		days[sy][inv.DayIndex] = true
		buckets[sy][inv.TimeBucket] = true
		registers[sy][inv.RegisterID] = true
		if inv.DayIndex > maxDay[sy] {
			maxDay[sy] = inv.DayIndex
		}

		key := model.PeriodKey{
			BucketKey: model.BucketKey{
				Store:      inv.Store,
				Year:       inv.Year,
				DayIndex:   inv.DayIndex,
				TimeBucket: inv.TimeBucket,
			},
			RegisterID: inv.RegisterID,
		}
		agg := sums[key]
		if agg == nil {
			agg = &model.RegisterPeriodVolume{
				Store:      inv.Store,
				RegisterID: inv.RegisterID,
				Year:       inv.Year,
				DayIndex:   inv.DayIndex,
				TimeBucket: inv.TimeBucket,
			}
			sums[key] = agg
		}
		agg.InvoiceCount++
		agg.TotalElapsedTime += inv.ElapsedTime
		agg.TotalItems += inv.ItemCount
		agg.TotalSales += inv.SaleAmount
	}

	// Buckets observed on the final day of an in-progress year bound that
	// day's baseline.
	lastDayBuckets := make(map[storeYear]map[float64]bool)
	for _, inv := range invoices {
		sy := storeYear{store: inv.Store, year: inv.Year}
		if inv.Year != b.CurrentYear || inv.DayIndex != maxDay[sy] {
			continue
		}
		if lastDayBuckets[sy] == nil {
			lastDayBuckets[sy] = make(map[float64]bool)
		}
		lastDayBuckets[sy][inv.TimeBucket] = true
	}

	var out []model.RegisterPeriodVolume
	for sy := range days {
		dayList := sortedInts(days[sy])
		bucketList := sortedFloats(buckets[sy])
		registerList := sortedStrings(registers[sy])

		for _, day := range dayList {
			dayBuckets := bucketList
			if sy.year == b.CurrentYear {
				if day == maxDay[sy] {
					dayBuckets = sortedFloats(lastDayBuckets[sy])
				}
				// Earlier days keep the full bucket domain; they are fully
				// elapsed.
			}
			for _, bucket := range dayBuckets {
				for _, register := range registerList {
					key := model.PeriodKey{
						BucketKey: model.BucketKey{
							Store:      sy.store,
							Year:       sy.year,
							DayIndex:   day,
							TimeBucket: bucket,
						},
						RegisterID: register,
					}
					if agg, ok := sums[key]; ok {
						out = append(out, *agg)
					} else {
						out = append(out, model.RegisterPeriodVolume{
							Store:      sy.store,
							RegisterID: register,
							Year:       sy.year,
							DayIndex:   day,
							TimeBucket: bucket,
						})
					}
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, z := out[i], out[j]
		if a.Store != z.Store {
			return a.Store < z.Store
		}
		if a.Year != z.Year {
			return a.Year < z.Year
		}
		if a.DayIndex != z.DayIndex {
			return a.DayIndex < z.DayIndex
		}
		if a.TimeBucket != z.TimeBucket {
			return a.TimeBucket < z.TimeBucket
		}
		return a.RegisterID < z.RegisterID
	})

	return out
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedFloats(set map[float64]bool) []float64 {
	out := make([]float64, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func sortedStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
