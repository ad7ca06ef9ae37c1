package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/shortreel/internal/dramabox"
)

// HomeFeed is the data behind the Home view.
type HomeFeed struct {
	Latest   []dramabox.Drama
	Trending []dramabox.Drama
	VIP      []dramabox.VIPColumn
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Feed                HomeFeed
	HasFeed             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the catalogue has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored feed. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(feed *HomeFeed, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if feed != nil {
		s.snapshot.Feed = cloneFeed(*feed)
		s.snapshot.HasFeed = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Feed = cloneFeed(s.snapshot.Feed)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneFeed(f HomeFeed) HomeFeed {
	return HomeFeed{
		Latest:   slices.Clone(f.Latest),
		Trending: slices.Clone(f.Trending),
		VIP:      slices.Clone(f.VIP),
	}
}
