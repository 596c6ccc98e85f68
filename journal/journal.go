// Package journal provides the append-only audit record of every state
// change made by the ledger and sale components. Entries are never consumed
// by the engine itself; they exist for external observers, analysis, and
// persistence.
package journal

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single structured notification. One entry is appended per
// logical effect of a successful mutating call; failed calls append nothing.
type Entry struct {
	ID    string            `json:"id"`
	Seq   uint64            `json:"seq"`
	Time  time.Time         `json:"time"`
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Journal is an in-memory append-only entry log, safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
	clock   func() time.Time
}

// New creates an empty journal stamped by the wall clock.
func New() *Journal {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty journal stamped by the given clock.
func NewWithClock(clock func() time.Time) *Journal {
	return &Journal{clock: clock}
}

// Append records a notification and returns the stored entry.
func (j *Journal) Append(name string, attrs map[string]string) Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	e := Entry{
		ID:    uuid.NewString(),
		Seq:   uint64(len(j.entries)),
		Time:  j.clock(),
		Name:  name,
		Attrs: attrs,
	}
	j.entries = append(j.entries, e)
	return e
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Entries returns a copy of all entries in append order.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// ByName returns all entries with the given name, in append order.
func (j *Journal) ByName(name string) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []Entry
	for _, e := range j.entries {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent entry and true, or a zero entry and false
// when the journal is empty.
func (j *Journal) Last() (Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.entries) == 0 {
		return Entry{}, false
	}
	return j.entries[len(j.entries)-1], true
}
