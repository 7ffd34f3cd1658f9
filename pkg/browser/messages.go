// Package browser is the UI-side half of the metadata engine: tabs with
// their listings, the producers that queue column and folder size work on
// the pool, and the handlers that merge finished work back into the list
// view and display window.
//
// A Window and everything it owns belong to one goroutine, the UI loop.
// Worker goroutines only ever see value snapshots and only ever talk back
// by posting one of the messages below into the window's mailbox. Each
// message carries an id; the payload stays in a UI-confined table until the
// handler takes it and decides, against the current state, whether it is
// still wanted.
package browser

import (
	"github.com/vanderheijden86/panes/pkg/dirwatch"
	"github.com/vanderheijden86/panes/pkg/results"
)

// TabID identifies a tab within its window.
type TabID int

// InternalIndex identifies an item for the life of one listing. It survives
// sorting and insertion and is what every asynchronous request refers to.
type InternalIndex int

// Generation is bumped on every navigation and teardown of a tab's listing.
type Generation uint64

// ColumnResultMsg announces that column value ID for tab TabID is ready.
type ColumnResultMsg struct {
	TabID TabID
	ID    results.ID
}

// FolderSizeMsg announces that folder size request ID is ready.
type FolderSizeMsg struct {
	ID results.ID
}

// DisplayDetailsMsg announces that display detail request ID is ready.
type DisplayDetailsMsg struct {
	ID results.ID
}

// DirectoryChangeMsg reports a change seen by a directory watch.
type DirectoryChangeMsg struct {
	WatchID dirwatch.ID
	Kind    dirwatch.Kind
	Path    string
	OldPath string
}

// Display window line indexes.
const (
	NameLine       = 0
	TypeLine       = 1
	FolderSizeLine = 1
	DateLine       = 2

	// Files that decode as images.
	ImageWidthLine  = 3
	ImageHeightLine = 4

	// Folders, for the volume that holds them.
	FreeSpaceLine   = 3
	VolumeTotalLine = 4
)
