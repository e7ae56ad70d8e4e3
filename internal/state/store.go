package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/tensu/internal/fetch"
	"github.com/five82/tensu/internal/sensu"
)

// Store implements fetch.Observer.
var _ fetch.Observer = (*Store)(nil)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Namespace           string
	View                View
	Items               []sensu.Item
	FetchStatus         string
	Renders             uint64 // Incremented on every Render; lets the UI skip unchanged frames
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed sweeps
}

// IsOffline returns true when the backend has been unreachable for multiple sweeps.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// ErrorText is the status line shown for the last failed sweep, or "" when
// the last sweep succeeded.
func (s Snapshot) ErrorText() string {
	switch {
	case s.LastError == nil:
		return ""
	case sensu.IsUnauthorized(s.LastError):
		return "Error! Sensu Go backend rejected the credentials."
	case s.View == ViewSilenced:
		return "Error! Failed to retrieve silences from Sensu Go backend."
	default:
		return "Error! Failed to retrieve events from Sensu Go backend."
	}
}

// Store coordinates the poller goroutine, which owns the fetch engine, and the UI.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Render records the engine's current stable snapshot.
func (s *Store) Render(items []sensu.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Items = slices.Clone(items)
	s.snapshot.Renders++
}

// Status records the engine's progress text.
func (s *Store) Status(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.FetchStatus = msg
}

// SetQuery records which namespace and view subsequent renders belong to
// and drops items from the previous query.
func (s *Store) SetQuery(namespace string, view View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Namespace == namespace && s.snapshot.View == view {
		return
	}
	s.snapshot.Namespace = namespace
	s.snapshot.View = view
	s.snapshot.Items = nil
	s.snapshot.Renders++
}

// Update records the outcome of a sweep. When err is non-nil the previous
// items are kept but the error is recorded for visibility.
func (s *Store) Update(lastUpdated time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = lastUpdated
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = slices.Clone(s.snapshot.Items)
	return snap
}
