// Package store holds the locally cached product, bill and customer
// collections the dashboard falls back to when the shop backend is silent.
package store

import (
	"sync/atomic"
	"time"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// Reader exposes the current local snapshot. Implementations must return a
// value that callers may read without synchronisation and must not mutate.
type Reader interface {
	Snapshot() models.Snapshot
}

// MemoryStore keeps the latest snapshot behind an atomic pointer. Readers never
// block; writers replace the whole snapshot. The zero value is an empty store
// that has not been loaded yet.
type MemoryStore struct {
	current atomic.Pointer[models.Snapshot]
}

// NewMemoryStore returns a store seeded with snap.
func NewMemoryStore(snap models.Snapshot) *MemoryStore {
	s := &MemoryStore{}
	s.Replace(snap)
	return s
}

// Snapshot returns the latest snapshot.
func (s *MemoryStore) Snapshot() models.Snapshot {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return models.Snapshot{}
}

// Replace swaps in a new snapshot. A zero LoadedAt is stamped with the current time.
func (s *MemoryStore) Replace(snap models.Snapshot) {
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = time.Now()
	}
	s.current.Store(&snap)
}

// Loaded reports whether a snapshot has ever been stored.
func (s *MemoryStore) Loaded() bool {
	return s.current.Load() != nil
}

// Age reports how long ago the current snapshot was loaded.
func (s *MemoryStore) Age() time.Duration {
	p := s.current.Load()
	if p == nil {
		return 0
	}
	return time.Since(p.LoadedAt)
}
