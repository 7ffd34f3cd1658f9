package browser

import (
	"cmp"
	"strings"

	"github.com/vanderheijden86/panes/pkg/columns"
)

// SortBy reorders the rows. Items keep their internal indexes, so work in
// flight still lands on the right row.
func (t *Tab) SortBy(col columns.Type, ascending bool) {
	t.sortCol, t.sortAsc = col, ascending
	t.sortRows()
}

// SortColumn returns the current sort column and direction.
func (t *Tab) SortColumn() (columns.Type, bool) {
	return t.sortCol, t.sortAsc
}

func (t *Tab) sortRows() {
	t.view.SortItems(func(a, b int) bool {
		return t.less(InternalIndex(a), InternalIndex(b))
	})
}

// less orders folders before files, then by the sort column, then by name.
func (t *Tab) less(a, b InternalIndex) bool {
	ia, ib := t.items[a], t.items[b]
	if ia.IsDir() != ib.IsDir() {
		return ia.IsDir()
	}
	c := t.compare(ia, ib)
	if c == 0 && t.sortCol != columns.Name {
		c = compareNames(ia.Name, ib.Name)
	}
	if c == 0 {
		c = cmp.Compare(a, b)
	}
	if !t.sortAsc {
		c = -c
	}
	return c < 0
}

func (t *Tab) compare(a, b columns.ItemInfo) int {
	switch t.sortCol {
	case columns.Name:
		return compareNames(a.Name, b.Name)
	case columns.Size:
		return cmp.Compare(a.Size, b.Size)
	case columns.RealSize:
		return cmp.Compare(a.AllocatedBytes, b.AllocatedBytes)
	case columns.DateModified:
		return a.ModTime.Compare(b.ModTime)
	case columns.DateCreated:
		return a.CreateTime.Compare(b.CreateTime)
	case columns.DateAccessed:
		return a.AccessTime.Compare(b.AccessTime)
	case columns.Extension:
		return strings.Compare(strings.ToLower(a.Extension()), strings.ToLower(b.Extension()))
	case columns.HardLinks:
		return cmp.Compare(a.Links, b.Links)
	case columns.Owner, columns.Group:
		// By id. Names would need a directory service lookup here.
		if !a.HasOwner || !b.HasOwner {
			return 0
		}
		if t.sortCol == columns.Owner {
			return cmp.Compare(a.UID, b.UID)
		}
		return cmp.Compare(a.GID, b.GID)
	case columns.ImageWidth, columns.ImageHeight, columns.TotalSize, columns.FreeSpace:
		// These need file or volume I/O; the UI goroutine sorts them by name.
		return 0
	}
	// The rest render from the snapshot alone, without I/O.
	s := t.win.settings
	return strings.Compare(columns.Text(t.win.ctx, t.sortCol, a, s), columns.Text(t.win.ctx, t.sortCol, b, s))
}

func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
