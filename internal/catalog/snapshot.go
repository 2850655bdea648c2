package catalog

import "time"

// Snapshot is one complete, immutable generation of the catalog.
type Snapshot struct {
	entries []*Entry
	byID    map[int]*Entry

	BuiltAt    time.Time
	Generation uint64
}

func newSnapshot(entries []*Entry, generation uint64, builtAt time.Time) *Snapshot {
	byID := make(map[int]*Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return &Snapshot{
		entries:    entries,
		byID:       byID,
		BuiltAt:    builtAt,
		Generation: generation,
	}
}

// Get returns the entry with the given id.
func (s *Snapshot) Get(id int) (*Entry, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Entries returns the entries in id order. The slice is a copy; the entries
// are shared.
func (s *Snapshot) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}
