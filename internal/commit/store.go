package commit

import (
	"sync"

	"github.com/javiermolinar/shopboard/internal/task"
)

// Store holds the current snapshot. The snapshot is replaced as a whole and
// never edited in place.
type Store struct {
	mu   sync.RWMutex
	snap *task.Snapshot
}

// NewStore creates a store holding snap, which may be nil.
func NewStore(snap *task.Snapshot) *Store {
	return &Store{snap: snap}
}

// Snapshot returns the current snapshot. It is never nil.
func (s *Store) Snapshot() *task.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return &task.Snapshot{}
	}
	return s.snap
}

// Replace swaps in a new snapshot.
func (s *Store) Replace(snap *task.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}
