package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueops/registerwatch/internal/model"
)

// tableTyper resolves device types from a fixed rule set.
type tableTyper map[string]int

func (t tableTyper) DeviceType(registerID string, year int) model.DeviceType {
	if y, ok := t[registerID]; ok && y == year {
		return model.DeviceFrictionless
	}
	return model.DeviceStandard
}

// volume builds one dense-grid row.
func volume(store string, year, day int, bucket float64, register string, count int) model.RegisterPeriodVolume {
	return model.RegisterPeriodVolume{
		Store:        store,
		RegisterID:   register,
		Year:         year,
		DayIndex:     day,
		TimeBucket:   bucket,
		InvoiceCount: count,
	}
}

// busyDay builds one store day where bucket 14.0 carries the register counts
// [30, 0, 28, 31, 0] (total 89) and the remaining buckets pull the day mean
// down far enough for 14.0 to classify High.
func busyDay(typerYear int) []model.RegisterPeriodVolume {
	registers := []string{"1", "2", "3", "4", "11"}
	counts := map[float64][]int{
		14.0: {30, 0, 28, 31, 0},
		14.5: {20, 10, 15, 10, 5},
		15.0: {5, 5, 5, 5, 0},
		15.5: {3, 2, 3, 2, 1},
	}
	var out []model.RegisterPeriodVolume
	for bucket, perRegister := range counts {
		for i, register := range registers {
			out = append(out, volume("11G", typerYear, 0, bucket, register, perRegister[i]))
		}
	}
	return out
}

func TestClassify_HighBucketUnmannedRegisters(t *testing.T) {
	c := New(tableTyper{}, DefaultThresholds())
	result := c.Classify(busyDay(2024))

	// Bucket totals: 89, 60, 20, 11. Mean 45, sample std ~34.2; the 89
	// bucket clears both the floor and the relative cutoff.
	byBucket := make(map[float64]model.BucketActivity)
	for _, b := range result.Buckets {
		byBucket[b.TimeBucket] = b
	}
	require.Len(t, byBucket, 4)
	assert.Equal(t, 89, byBucket[14.0].BucketTotal)
	assert.Equal(t, model.ActivityHigh, byBucket[14.0].Level)

	// In the High bucket, exactly the two zero-count registers are Unmanned.
	var unmanned, manned []string
	for _, p := range result.Periods {
		if p.TimeBucket != 14.0 {
			continue
		}
		if p.Status == model.StatusUnmanned {
			unmanned = append(unmanned, p.RegisterID)
		} else {
			manned = append(manned, p.RegisterID)
		}
	}
	assert.ElementsMatch(t, []string{"2", "11"}, unmanned)
	assert.ElementsMatch(t, []string{"1", "3", "4"}, manned)
}

func TestClassify_FrictionlessImmunity(t *testing.T) {
	// Same day, but register 11 is the configured frictionless device for
	// that year: it stays Manned despite a zero count in a High bucket.
	c := New(tableTyper{"11": 2024}, DefaultThresholds())
	result := c.Classify(busyDay(2024))

	for _, p := range result.Periods {
		if p.RegisterID != "11" {
			continue
		}
		assert.Equal(t, model.DeviceFrictionless, p.DeviceType)
		assert.Equal(t, model.StatusManned, p.Status,
			"frictionless register must never be unmanned (bucket %.1f)", p.TimeBucket)
	}
}

func TestClassify_FrictionlessRuleScopedToYear(t *testing.T) {
	// The exception is per (register, year): in another year register 11 is
	// a standard device again.
	c := New(tableTyper{"11": 2024}, DefaultThresholds())
	result := c.Classify(busyDay(2023))

	var found bool
	for _, p := range result.Periods {
		if p.RegisterID == "11" && p.TimeBucket == 14.0 {
			found = true
			assert.Equal(t, model.DeviceStandard, p.DeviceType)
			assert.Equal(t, model.StatusUnmanned, p.Status)
		}
	}
	require.True(t, found)
}

func TestClassify_HighFloor(t *testing.T) {
	// One bucket dominates the day but its absolute volume is below the
	// floor: the relative cutoff alone must not produce a High label.
	volumes := []model.RegisterPeriodVolume{
		volume("S2", 2024, 0, 10, "1", 20),
		volume("S2", 2024, 0, 10.5, "1", 0),
		volume("S2", 2024, 0, 11, "1", 0),
		volume("S2", 2024, 0, 11.5, "1", 0),
	}

	c := New(tableTyper{}, DefaultThresholds())
	result := c.Classify(volumes)

	for _, b := range result.Buckets {
		assert.NotEqual(t, model.ActivityHigh, b.Level,
			"bucket %.1f total %d is under the floor", b.TimeBucket, b.BucketTotal)
	}
}

func TestClassify_UnmannedPrecondition(t *testing.T) {
	c := New(tableTyper{"11": 2024}, DefaultThresholds())
	result := c.Classify(busyDay(2024))

	levels := make(map[model.BucketKey]model.ActivityLevel)
	for _, b := range result.Buckets {
		levels[b.BucketKey] = b.Level
	}

	for _, p := range result.Periods {
		isUnmanned := p.Status == model.StatusUnmanned
		shouldBe := levels[p.Key().BucketKey] == model.ActivityHigh &&
			p.InvoiceCount == 0 &&
			p.DeviceType == model.DeviceStandard
		assert.Equal(t, shouldBe, isUnmanned,
			"register %s bucket %.1f", p.RegisterID, p.TimeBucket)
	}
}

func TestClassify_Exclusivity(t *testing.T) {
	c := New(tableTyper{}, DefaultThresholds())
	result := c.Classify(busyDay(2024))

	for _, b := range result.Buckets {
		assert.True(t, b.Level.Valid(), "bucket %.1f has level %q", b.TimeBucket, b.Level)
	}
	for _, p := range result.Periods {
		assert.True(t, p.Status.Valid())
		assert.True(t, p.Level.Valid())
		assert.True(t, p.DeviceType.Valid())
	}
}

func TestClassify_SingleBucketDay(t *testing.T) {
	// One bucket: std is undefined and must be treated as zero, with both
	// cutoffs collapsing to the mean.
	volumes := []model.RegisterPeriodVolume{
		volume("OCT", 2024, 5, 12, "1", 30),
	}

	c := New(tableTyper{}, DefaultThresholds())
	result := c.Classify(volumes)

	require.Len(t, result.Buckets, 1)
	stats := result.DayStats[DayKey{Store: "OCT", Year: 2024, DayIndex: 5}]
	assert.Equal(t, 30.0, stats.Mean)
	assert.Zero(t, stats.Std)
	assert.Equal(t, stats.Mean, stats.CutoffLow)
	assert.Equal(t, stats.Mean, stats.CutoffHigh)

	// 30 >= floor and >= cutoff: High even with zero variance.
	assert.Equal(t, model.ActivityHigh, result.Buckets[0].Level)
}

func TestClassify_AllZeroDay(t *testing.T) {
	volumes := []model.RegisterPeriodVolume{
		volume("OCT", 2024, 5, 12, "1", 0),
		volume("OCT", 2024, 5, 12.5, "1", 0),
		volume("OCT", 2024, 5, 13, "1", 0),
	}

	c := New(tableTyper{}, DefaultThresholds())
	result := c.Classify(volumes)

	stats := result.DayStats[DayKey{Store: "OCT", Year: 2024, DayIndex: 5}]
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.Std)

	for _, b := range result.Buckets {
		assert.Equal(t, model.ActivityMid, b.Level)
	}
	for _, p := range result.Periods {
		assert.Equal(t, model.StatusManned, p.Status,
			"zero-activity day has no High buckets, so nothing is unmanned")
	}
}

func TestClassify_LowRequiresStrictlyBelowCutoff(t *testing.T) {
	// Totals 100, 10, 10, 10: mean 32.5, sample std 45, low cutoff 10.
	// A total exactly at the cutoff is Mid, not Low.
	volumes := []model.RegisterPeriodVolume{
		volume("S2", 2023, 1, 10, "1", 100),
		volume("S2", 2023, 1, 10.5, "1", 10),
		volume("S2", 2023, 1, 11, "1", 10),
		volume("S2", 2023, 1, 11.5, "1", 10),
	}

	c := New(tableTyper{}, DefaultThresholds())
	result := c.Classify(volumes)

	byBucket := make(map[float64]model.BucketActivity)
	for _, b := range result.Buckets {
		byBucket[b.TimeBucket] = b
	}
	assert.Equal(t, model.ActivityHigh, byBucket[10.0].Level)
	assert.Equal(t, model.ActivityMid, byBucket[10.5].Level)
	assert.Equal(t, model.ActivityMid, byBucket[11.0].Level)
}

func TestDayStats_PerDayIsolation(t *testing.T) {
	// Two days with different shapes must not share cutoffs.
	volumes := []model.RegisterPeriodVolume{
		volume("S2", 2023, 0, 10, "1", 100),
		volume("S2", 2023, 0, 10.5, "1", 0),
		volume("S2", 2023, 1, 10, "1", 4),
		volume("S2", 2023, 1, 10.5, "1", 6),
	}

	c := New(tableTyper{}, DefaultThresholds())
	result := c.Classify(volumes)

	day0 := result.DayStats[DayKey{Store: "S2", Year: 2023, DayIndex: 0}]
	day1 := result.DayStats[DayKey{Store: "S2", Year: 2023, DayIndex: 1}]
	assert.Equal(t, 50.0, day0.Mean)
	assert.Equal(t, 5.0, day1.Mean)
	assert.NotEqual(t, day0.CutoffHigh, day1.CutoffHigh)
}
