// Package dataset holds the in-memory snapshot of one uploaded extract.
// Snapshots are immutable once built; a new upload replaces the whole
// snapshot atomically so a recompute never races a partial load.
package dataset

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/venueops/registerwatch/internal/model"
)

// Snapshot is one loaded extract. Exactly one of Invoices or Volumes is
// populated, depending on which input shape was uploaded.
type Snapshot struct {
	LoadedAt time.Time
	Source   string
	Invoices []model.InvoiceRecord
	Volumes  []model.RegisterPeriodVolume
	ID       uuid.UUID
}

// NewInvoiceSnapshot wraps raw invoice records in a snapshot.
func NewInvoiceSnapshot(source string, invoices []model.InvoiceRecord) *Snapshot {
	return &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Source:   source,
		Invoices: invoices,
	}
}

// NewVolumeSnapshot wraps a pre-aggregated volume export in a snapshot.
func NewVolumeSnapshot(source string, volumes []model.RegisterPeriodVolume) *Snapshot {
	return &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Source:   source,
		Volumes:  volumes,
	}
}

// Empty reports whether the snapshot carries no rows at all.
func (s *Snapshot) Empty() bool {
	return len(s.Invoices) == 0 && len(s.Volumes) == 0
}

// Rows returns the number of records in the snapshot.
func (s *Snapshot) Rows() int {
	if len(s.Invoices) > 0 {
		return len(s.Invoices)
	}
	return len(s.Volumes)
}

// Stores returns the distinct store codes in the snapshot, ascending.
func (s *Snapshot) Stores() []string {
	seen := make(map[string]bool)
	for _, inv := range s.Invoices {
		seen[inv.Store] = true
	}
	for _, v := range s.Volumes {
		seen[v.Store] = true
	}
	out := make([]string, 0, len(seen))
	for store := range seen {
		out = append(out, store)
	}
	sort.Strings(out)
	return out
}

// Years returns the distinct years in the snapshot, ascending.
func (s *Snapshot) Years() []int {
	seen := make(map[int]bool)
	for _, inv := range s.Invoices {
		seen[inv.Year] = true
	}
	for _, v := range s.Volumes {
		seen[v.Year] = true
	}
	out := make([]int, 0, len(seen))
	for year := range seen {
		out = append(out, year)
	}
	sort.Ints(out)
	return out
}

// DayRange returns the lowest and highest day index present. ok is false
// for an empty snapshot.
func (s *Snapshot) DayRange() (minDay, maxDay int, ok bool) {
	first := true
	note := func(day int) {
		if first {
			minDay, maxDay = day, day
			first = false
			return
		}
		if day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}
	for _, inv := range s.Invoices {
		note(inv.DayIndex)
	}
	for _, v := range s.Volumes {
		note(v.DayIndex)
	}
	return minDay, maxDay, !first
}
