package requestlog

import (
	"sync"

	"github.com/localmock/localmock/pkg/util"
)

// DefaultMaxEntries is the history size used when none is configured.
const DefaultMaxEntries = 100

// Store is a fixed-capacity FIFO of entries, safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	start   int // index of the oldest entry once the buffer has wrapped
	max     int
}

// NewStore creates a store holding at most maxEntries entries. A
// non-positive value selects DefaultMaxEntries.
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		entries: make([]Entry, 0, maxEntries),
		max:     maxEntries,
	}
}

// Log appends e, evicting the oldest entry when full. A missing timestamp is
// filled in with the current time.
func (s *Store) Log(e Entry) {
	if e.Timestamp == "" {
		e.Timestamp = util.NowISO()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) < s.max {
		s.entries = append(s.entries, e)
		return
	}
	s.entries[s.start] = e
	s.start = (s.start + 1) % s.max
}

// List returns a copy of the entries, oldest first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	out = append(out, s.entries[s.start:]...)
	out = append(out, s.entries[:s.start]...)
	return out
}

// Count returns the number of entries held.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Capacity returns the maximum number of entries held.
func (s *Store) Capacity() int {
	return s.max
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = s.entries[:0]
	s.start = 0
	return n
}
