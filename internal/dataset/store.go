package dataset

import (
	"sync/atomic"

	"github.com/venueops/registerwatch/internal/common"
)

// Store holds the current snapshot and swaps it wholesale on upload.
// Readers always see either the previous complete snapshot or the new one,
// never a mix.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// Replace installs a new snapshot and returns the one it displaced, if any.
func (s *Store) Replace(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}

// Current returns the installed snapshot, or ErrNoSnapshot when nothing has
// been uploaded yet.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, common.ErrNoSnapshot
	}
	return snap, nil
}
