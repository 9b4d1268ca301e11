package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueops/registerwatch/internal/model"
)

// invoice builds a minimal invoice for grid tests; every invoice carries one
// item and a fixed amount so aggregate expectations stay easy to read.
func invoice(store string, year, day int, bucket float64, register string) model.InvoiceRecord {
	return model.InvoiceRecord{
		Store:       store,
		RegisterID:  register,
		Year:        year,
		DayIndex:    day,
		TimeBucket:  bucket,
		ElapsedTime: 60,
		ItemCount:   1,
		SaleAmount:  10,
	}
}

func TestBuild_DenseWithinDomain(t *testing.T) {
	// Year 2023, days {0,1}, buckets {10, 10.5}, registers {1,2}, with most
	// combinations empty.
	invoices := []model.InvoiceRecord{
		invoice("11G", 2023, 0, 10, "1"),
		invoice("11G", 2023, 0, 10, "1"),
		invoice("11G", 2023, 1, 10.5, "2"),
	}

	b := Builder{}
	out := b.Build(invoices)

	// 1 year x 2 days x 2 buckets x 2 registers.
	require.Len(t, out, 8)

	seen := make(map[model.PeriodKey]int)
	for _, v := range out {
		seen[v.Key()]++
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "duplicate row for %+v", key)
	}
}

func TestBuild_Aggregates(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("11G", 2023, 0, 10, "1"),
		invoice("11G", 2023, 0, 10, "1"),
		invoice("11G", 2023, 0, 10.5, "1"),
	}
	invoices[1].ItemCount = 3
	invoices[1].SaleAmount = 25.5
	invoices[1].ElapsedTime = 300

	b := Builder{}
	out := b.Build(invoices)

	byKey := make(map[model.PeriodKey]model.RegisterPeriodVolume)
	for _, v := range out {
		byKey[v.Key()] = v
	}

	agg := byKey[model.PeriodKey{
		BucketKey:  model.BucketKey{Store: "11G", Year: 2023, DayIndex: 0, TimeBucket: 10},
		RegisterID: "1",
	}]
	assert.Equal(t, 2, agg.InvoiceCount)
	assert.Equal(t, 4, agg.TotalItems)
	assert.InDelta(t, 35.5, agg.TotalSales, 1e-9)
	assert.InDelta(t, 360, agg.TotalElapsedTime, 1e-9)
}

func TestBuild_ZeroFill(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("S2", 2023, 0, 12, "1"),
		invoice("S2", 2023, 0, 12.5, "2"),
	}

	b := Builder{}
	out := b.Build(invoices)

	// Register 2 had no invoices at 12.0; the row must exist with zeros.
	require.Len(t, out, 4)
	var zero *model.RegisterPeriodVolume
	for i := range out {
		if out[i].RegisterID == "2" && out[i].TimeBucket == 12 {
			zero = &out[i]
		}
	}
	require.NotNil(t, zero, "zero row missing from dense grid")
	assert.Equal(t, 0, zero.InvoiceCount)
	assert.Equal(t, 0, zero.TotalItems)
	assert.Zero(t, zero.TotalSales)
	assert.Zero(t, zero.TotalElapsedTime)
}

func TestBuild_CurrentYearTruncation(t *testing.T) {
	invoices := []model.InvoiceRecord{
		// Fully elapsed days 0 and 1 across three buckets.
		invoice("11G", 2024, 0, 10, "1"),
		invoice("11G", 2024, 0, 10.5, "3"),
		invoice("11G", 2024, 1, 11, "1"),
		// In-progress day 2: only the 10.0 bucket has been observed.
		invoice("11G", 2024, 2, 10, "1"),
	}

	b := Builder{CurrentYear: 2024}
	out := b.Build(invoices)

	// Days 0,1: 3 buckets x 2 registers each. Day 2: 1 bucket x 2 registers.
	require.Len(t, out, 14)

	for _, v := range out {
		if v.DayIndex == 2 {
			assert.Equal(t, 10.0, v.TimeBucket,
				"no baseline row may exist past the latest observed bucket on the latest day")
		}
	}
}

func TestBuild_PastYearNotTruncated(t *testing.T) {
	// Same shape as the truncation test, but the year is fully elapsed:
	// day 2 gets the full bucket domain.
	invoices := []model.InvoiceRecord{
		invoice("11G", 2023, 0, 10, "1"),
		invoice("11G", 2023, 0, 10.5, "3"),
		invoice("11G", 2023, 1, 11, "1"),
		invoice("11G", 2023, 2, 10, "1"),
	}

	b := Builder{CurrentYear: 2024}
	out := b.Build(invoices)

	// 3 days x 3 buckets x 2 registers.
	assert.Len(t, out, 18)
}

func TestBuild_StoresIndependent(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("11G", 2023, 0, 10, "1"),
		invoice("S2", 2023, 0, 11, "7"),
		invoice("S2", 2023, 0, 11.5, "8"),
	}

	b := Builder{}
	out := b.Build(invoices)

	// 11G: 1x1x1. S2: 1 day x 2 buckets x 2 registers.
	counts := make(map[string]int)
	for _, v := range out {
		counts[v.Store]++
		if v.Store == "11G" {
			assert.NotContains(t, []string{"7", "8"}, v.RegisterID,
				"registers must not leak between stores")
		}
	}
	assert.Equal(t, 1, counts["11G"])
	assert.Equal(t, 4, counts["S2"])
}

func TestBuild_EmptyInput(t *testing.T) {
	b := Builder{}
	assert.Empty(t, b.Build(nil))
}

func TestBuild_RegistersScopedToYear(t *testing.T) {
	// Register 9 only operated in 2024; the 2023 baseline must not include it.
	invoices := []model.InvoiceRecord{
		invoice("11G", 2023, 0, 10, "1"),
		invoice("11G", 2024, 0, 10, "9"),
	}

	b := Builder{}
	out := b.Build(invoices)

	for _, v := range out {
		if v.Year == 2023 {
			assert.NotEqual(t, "9", v.RegisterID)
		}
	}
}

func TestBuild_SortedOutput(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("S2", 2024, 1, 10.5, "2"),
		invoice("S2", 2024, 0, 10, "1"),
		invoice("11G", 2023, 0, 10, "1"),
	}

	b := Builder{}
	out := b.Build(invoices)

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if prev.Store != cur.Store {
			assert.Less(t, prev.Store, cur.Store)
		}
	}
	assert.Equal(t, "11G", out[0].Store)
}
