package pipeline

import (
	"math"
	"sort"

	"github.com/venueops/registerwatch/internal/classify"
	"github.com/venueops/registerwatch/internal/model"
)

// RegisterDaySummary is one register's line in the drill-down summary.
type RegisterDaySummary struct {
	RegisterID         string
	DeviceType         model.DeviceType
	DailyTotal         int
	UnmannedPeriods    int
	PerBucketAvg       float64
	PerMannedBucketAvg float64
}

// DaySummary is the drill-down view of one store day: the day's cutoff
// statistics plus per-register activity averages, split out for manned
// periods and high-activity periods.
type DaySummary struct {
	Store     string
	Year      int
	DayIndex  int
	Registers int
	Buckets   int

	DailyTotal int
	Stats      classify.DayStats

	// Averages across registers.
	AvgRegisterDailyTotal      float64
	AvgRegisterPerBucket       float64
	AvgRegisterPerMannedBucket float64

	// Averages across high-activity buckets.
	AvgPerRegisterHighBuckets       float64
	AvgPerMannedRegisterHighBuckets float64

	UnmannedPeriods            int
	AvgUnmannedPerRegister     float64
	PctPeriodsUnmanned         float64
	StdUnmannedAcrossRegisters float64

	PerRegister []RegisterDaySummary
}

// DaySummary computes the drill-down statistics for one store day.
func (r *Result) DaySummary(store string, year, day int) (*DaySummary, error) {
	buckets, periods, err := r.FilterStoreDay(store, year, day)
	if err != nil {
		return nil, err
	}

	s := &DaySummary{
		Store:    store,
		Year:     year,
		DayIndex: day,
		Buckets:  len(buckets),
		Stats:    r.DayStats[classify.DayKey{Store: store, Year: year, DayIndex: day}],
	}
	for _, b := range buckets {
		s.DailyTotal += b.BucketTotal
	}

	// Per-register rollups.
	type regAgg struct {
		device   model.DeviceType
		total    int
		unmanned int
	}
	regs := make(map[string]*regAgg)
	for _, p := range periods {
		agg := regs[p.RegisterID]
		if agg == nil {
			agg = &regAgg{device: p.DeviceType}
			regs[p.RegisterID] = agg
		}
		agg.total += p.InvoiceCount
		if p.Status == model.StatusUnmanned {
			agg.unmanned++
		}
	}
	s.Registers = len(regs)

	ids := make([]string, 0, len(regs))
	for id := range regs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var unmannedCounts []int
	for _, id := range ids {
		agg := regs[id]
		line := RegisterDaySummary{
			RegisterID:      id,
			DeviceType:      agg.device,
			DailyTotal:      agg.total,
			UnmannedPeriods: agg.unmanned,
		}
		if s.Buckets > 0 {
			line.PerBucketAvg = float64(agg.total) / float64(s.Buckets)
		}
		if manned := s.Buckets - agg.unmanned; manned > 0 {
			line.PerMannedBucketAvg = float64(agg.total) / float64(manned)
		}
		s.PerRegister = append(s.PerRegister, line)

		s.UnmannedPeriods += agg.unmanned
		unmannedCounts = append(unmannedCounts, agg.unmanned)
		s.AvgRegisterDailyTotal += float64(agg.total)
		s.AvgRegisterPerBucket += line.PerBucketAvg
		s.AvgRegisterPerMannedBucket += line.PerMannedBucketAvg
	}
	if s.Registers > 0 {
		s.AvgRegisterDailyTotal /= float64(s.Registers)
		s.AvgRegisterPerBucket /= float64(s.Registers)
		s.AvgRegisterPerMannedBucket /= float64(s.Registers)
		s.AvgUnmannedPerRegister = float64(s.UnmannedPeriods) / float64(s.Registers)
		if s.Buckets > 0 {
			s.PctPeriodsUnmanned = s.AvgUnmannedPerRegister / float64(s.Buckets) * 100
		}
		s.StdUnmannedAcrossRegisters = sampleStdInts(unmannedCounts)
	}

	// High-activity bucket averages, filtered on the canonical High label.
	unmannedByBucket := make(map[float64]int)
	for _, p := range periods {
		if p.Status == model.StatusUnmanned {
			unmannedByBucket[p.TimeBucket]++
		}
	}
	highBuckets := 0
	var perRegister, perManned float64
	mannedBucketsCounted := 0
	for _, b := range buckets {
		if b.Level != model.ActivityHigh {
			continue
		}
		highBuckets++
		if s.Registers > 0 {
			perRegister += float64(b.BucketTotal) / float64(s.Registers)
		}
		if manned := s.Registers - unmannedByBucket[b.TimeBucket]; manned > 0 {
			perManned += float64(b.BucketTotal) / float64(manned)
			mannedBucketsCounted++
		}
	}
	if highBuckets > 0 {
		s.AvgPerRegisterHighBuckets = perRegister / float64(highBuckets)
	}
	if mannedBucketsCounted > 0 {
		s.AvgPerMannedRegisterHighBuckets = perManned / float64(mannedBucketsCounted)
	}

	return s, nil
}

func sampleStdInts(values []int) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	var ss float64
	for _, v := range values {
		d := float64(v) - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
