// Package presence builds the cross-year unmanned-register presence matrix
// used to compare stores across event editions.
package presence

import (
	"sort"

	"github.com/venueops/registerwatch/internal/model"
)

// SlotKey identifies one (day, bucket) cell within a store's matrix.
type SlotKey struct {
	DayIndex   int
	TimeBucket float64
}

// Cell counts, over the selected years, how many years had at least one
// unmanned register in the slot and how many years classified the slot High
// at all. Each year contributes at most one to each count, so both values
// are bounded by the number of selected years.
type Cell struct {
	UnmannedYears int
	HighYears     int
}

// NoHighActivity reports whether the slot was never High in any selected
// year; such cells carry no unmanned signal and are rendered masked.
func (c Cell) NoHighActivity() bool {
	return c.HighYears == 0
}

// Matrix is one store's presence summary.
type Matrix struct {
	Cells map[SlotKey]Cell
	Store string
	Years []int
}

// Days returns the day indexes present in the matrix, ascending.
func (m *Matrix) Days() []int {
	seen := make(map[int]bool)
	for slot := range m.Cells {
		seen[slot.DayIndex] = true
	}
	out := make([]int, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Buckets returns the time buckets present in the matrix, ascending.
func (m *Matrix) Buckets() []float64 {
	seen := make(map[float64]bool)
	for slot := range m.Cells {
		seen[slot.TimeBucket] = true
	}
	out := make([]float64, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Float64s(out)
	return out
}

// Summarize builds one matrix per store from classified register periods,
// restricted to the selected years and day indexes. Stores without matching
// rows are absent from the result.
func Summarize(periods []model.RegisterPeriod, years []int, days []int) map[string]*Matrix {
	yearSet := make(map[int]bool, len(years))
	for _, y := range years {
		yearSet[y] = true
	}
	daySet := make(map[int]bool, len(days))
	for _, d := range days {
		daySet[d] = true
	}

	// Collapse registers first: one flag pair per (store, year, slot).
	type yearSlot struct {
		store string
		year  int
		slot  SlotKey
	}
	type flags struct {
		unmanned bool
		high     bool
	}
	slots := make(map[yearSlot]*flags)

	for _, p := range periods {
		if !yearSet[p.Year] || !daySet[p.DayIndex] {
			continue
		}
		key := yearSlot{
			store: p.Store,
			year:  p.Year,
			slot:  SlotKey{DayIndex: p.DayIndex, TimeBucket: p.TimeBucket},
		}
		f := slots[key]
		if f == nil {
			f = &flags{}
			slots[key] = f
		}
		if p.Status == model.StatusUnmanned {
			f.unmanned = true
		}
		if p.Level == model.ActivityHigh {
			f.high = true
		}
	}

	sortedYears := make([]int, 0, len(yearSet))
	for y := range yearSet {
		sortedYears = append(sortedYears, y)
	}
	sort.Ints(sortedYears)

	matrices := make(map[string]*Matrix)
	for key, f := range slots {
		m := matrices[key.store]
		if m == nil {
			m = &Matrix{
				Store: key.store,
				Years: sortedYears,
				Cells: make(map[SlotKey]Cell),
			}
			matrices[key.store] = m
		}
		cell := m.Cells[key.slot]
		if f.unmanned {
			cell.UnmannedYears++
		}
		if f.high {
			cell.HighYears++
		}
		m.Cells[key.slot] = cell
	}

	return matrices
}
