package results

import "github.com/vanderheijden86/panes/pkg/workerpool"

// Table maps correlation ids to pending futures. An entry lives from
// submission until it is taken or the table is cleared.
type Table[T any] struct {
	entries map[ID]*workerpool.Future[T]
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{entries: make(map[ID]*workerpool.Future[T])}
}

// Insert records a pending entry for id. An existing entry with the same
// id is replaced; counters make that impossible in practice.
func (t *Table[T]) Insert(id ID, f *workerpool.Future[T]) {
	if t.entries == nil {
		t.entries = make(map[ID]*workerpool.Future[T])
	}
	t.entries[id] = f
}

// TryTake removes the entry for id and returns its resolved value.
// ok is false when the entry is absent, either because it was already
// taken or because the table was cleared. Absence is not an error.
func (t *Table[T]) TryTake(id ID) (value T, err error, ok bool) {
	f, found := t.entries[id]
	if !found {
		var zero T
		return zero, nil, false
	}
	delete(t.entries, id)
	value, err = f.Get()
	return value, err, true
}

// Has reports whether id is still pending.
func (t *Table[T]) Has(id ID) bool {
	_, ok := t.entries[id]
	return ok
}

// Len returns the number of pending entries.
func (t *Table[T]) Len() int {
	return len(t.entries)
}

// Clear drops every pending entry regardless of completion state and
// returns how many were dropped. Worker tasks already running are not
// affected; their later notifications find nothing.
func (t *Table[T]) Clear() int {
	n := len(t.entries)
	clear(t.entries)
	return n
}
