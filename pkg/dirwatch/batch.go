package dirwatch

import (
	"path/filepath"
	"slices"
)

// batch accumulates raw changes between flushes. It belongs to a single
// watch goroutine.
type batch struct {
	events   []Event
	modified map[string]bool
	renames  []string // old paths waiting for a Create in the same folder
	overflow bool
}

func newBatch() *batch {
	return &batch{modified: make(map[string]bool)}
}

func (b *batch) empty() bool {
	return len(b.events) == 0 && len(b.renames) == 0 && !b.overflow
}

func (b *batch) add(kind Kind, path string) {
	switch kind {
	case Modified:
		if b.modified[path] {
			return
		}
		b.modified[path] = true
	case Added:
		// A Create pairs with a pending rename from the same folder only.
		// Anything else stays a Removed plus an Added.
		dir := filepath.Dir(path)
		if i := slices.IndexFunc(b.renames, func(old string) bool { return filepath.Dir(old) == dir }); i >= 0 {
			old := b.renames[i]
			b.renames = slices.Delete(b.renames, i, i+1)
			b.events = append(b.events, Event{Kind: Renamed, OldPath: old, Path: path})
			b.modified[path] = true
			return
		}
		b.modified[path] = true
	case Removed:
		delete(b.modified, path)
	}
	b.events = append(b.events, Event{Kind: kind, Path: path})
}

func (b *batch) renameFrom(path string) {
	delete(b.modified, path)
	b.renames = append(b.renames, path)
}

// take returns the batch contents and resets it. An overflow replaces
// every individual event.
func (b *batch) take() []Event {
	var out []Event
	if b.overflow {
		out = []Event{{Kind: Overflow}}
	} else {
		out = b.events
		for _, old := range b.renames {
			out = append(out, Event{Kind: Removed, Path: old})
		}
	}
	b.events = nil
	b.renames = nil
	b.overflow = false
	clear(b.modified)
	return out
}
