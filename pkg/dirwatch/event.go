package dirwatch

import (
	"fmt"

	"github.com/vanderheijden86/panes/pkg/results"
)

// ID identifies a registered watch.
type ID = results.ID

// Kind classifies a directory change.
type Kind int

const (
	Added Kind = iota + 1
	Removed
	Modified
	Renamed
	// Overflow means events were lost and the listing must be re-read.
	Overflow
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	case Renamed:
		return "renamed"
	case Overflow:
		return "overflow"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one coalesced change. Paths are absolute. OldPath is set only
// for Renamed.
type Event struct {
	WatchID ID
	Kind    Kind
	Path    string
	OldPath string
}

func (e Event) String() string {
	if e.Kind == Renamed {
		return fmt.Sprintf("%s %s -> %s", e.Kind, e.OldPath, e.Path)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}
