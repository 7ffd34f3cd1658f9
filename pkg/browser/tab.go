package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/dirwatch"
	"github.com/vanderheijden86/panes/pkg/listview"
	"github.com/vanderheijden86/panes/pkg/metrics"
	"github.com/vanderheijden86/panes/pkg/results"
)

// Tab is one directory listing with its list view, its pending column
// results and its directory watch.
type Tab struct {
	id  TabID
	win *Window

	generation Generation
	dir        string

	nextIndex InternalIndex
	items     map[InternalIndex]columns.ItemInfo
	byPath    map[string]InternalIndex

	view *listview.ListView
	cols []columns.Type

	ids       results.Counter
	table     *results.Table[columnResult]
	requested map[InternalIndex]map[columns.Type]bool

	watchID  dirwatch.ID
	watchGen Generation

	selected    InternalIndex
	hasSelected bool

	sortCol columns.Type
	sortAsc bool
}

func newTab(w *Window, id TabID, cols []columns.Type) *Tab {
	t := &Tab{
		id:        id,
		win:       w,
		items:     make(map[InternalIndex]columns.ItemInfo),
		byPath:    make(map[string]InternalIndex),
		view:      listview.New(),
		table:     results.NewTable[columnResult](),
		requested: make(map[InternalIndex]map[columns.Type]bool),
		sortCol:   columns.Name,
		sortAsc:   true,
	}
	t.setHeader(cols)
	return t
}

// ID returns the tab id.
func (t *Tab) ID() TabID { return t.id }

// Dir returns the listed directory, empty before the first navigation.
func (t *Tab) Dir() string { return t.dir }

// Generation returns the current listing generation.
func (t *Tab) Generation() Generation { return t.generation }

// View returns the tab's list view.
func (t *Tab) View() *listview.ListView { return t.view }

// Columns returns the header layout.
func (t *Tab) Columns() []columns.Type {
	out := make([]columns.Type, len(t.cols))
	copy(out, t.cols)
	return out
}

// WatchID returns the active directory watch, or 0.
func (t *Tab) WatchID() dirwatch.ID { return t.watchID }

// PendingColumns returns the number of outstanding column results.
func (t *Tab) PendingColumns() int { return t.table.Len() }

// Item returns the snapshot for an internal index.
func (t *Tab) Item(idx InternalIndex) (columns.ItemInfo, bool) {
	info, ok := t.items[idx]
	return info, ok
}

// Lookup returns the internal index of the item at path.
func (t *Tab) Lookup(path string) (InternalIndex, bool) {
	idx, ok := t.byPath[path]
	return idx, ok
}

// RowItem returns the internal index shown at row.
func (t *Tab) RowItem(row int) (InternalIndex, bool) {
	p, ok := t.view.ItemParam(row)
	return InternalIndex(p), ok
}

// Row returns the current row of an item.
func (t *Tab) Row(idx InternalIndex) (int, bool) {
	return t.view.FindItemByParam(int(idx))
}

// Navigate replaces the listing with the contents of dir. On error the
// current listing is left untouched.
func (t *Tab) Navigate(dir string) error {
	defer metrics.Timer(metrics.Enumerate)()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", dir, err)
	}

	t.Teardown()
	t.dir = abs

	for _, e := range entries {
		fi, err := e.Info()
		if err != nil {
			// Vanished between ReadDir and Lstat.
			continue
		}
		info := columns.FromFileInfo(filepath.Join(abs, e.Name()), fi)
		if info.Hidden() && !t.win.settings.ShowHidden {
			continue
		}
		t.addListed(info)
	}
	t.sortRows()
	t.startWatch()

	debug.Log("browser: tab %d listed %s (%d items, generation %d)", t.id, abs, len(t.items), t.generation)
	t.win.onSelectionChanged(t)
	return nil
}

// Refresh re-reads the current directory.
func (t *Tab) Refresh() error {
	if t.dir == "" {
		return nil
	}
	return t.Navigate(t.dir)
}

// Teardown destroys the listing. Pending results are dropped and the
// directory watch is stopped before Teardown returns.
func (t *Tab) Teardown() {
	t.generation++
	if n := t.table.Clear(); n > 0 {
		debug.Log("browser: tab %d dropped %d pending column results", t.id, n)
	}
	t.stopWatch()
	t.view.DeleteAllItems()
	clear(t.items)
	clear(t.byPath)
	clear(t.requested)
	t.hasSelected = false
}

func (t *Tab) addListed(info columns.ItemInfo) InternalIndex {
	t.nextIndex++
	idx := t.nextIndex
	t.items[idx] = info
	t.byPath[info.Path] = idx

	row := t.view.InsertItem(t.view.ItemCount(), int(idx), "")
	t.setNameCell(row, info.Name)
	return idx
}

func (t *Tab) setNameCell(row int, name string) {
	if col, ok := t.view.FindColumn(int(columns.Name)); ok {
		t.view.SetItemText(row, col, name)
	}
}

func (t *Tab) setHeader(cols []columns.Type) {
	t.cols = t.cols[:0]
	header := make([]listview.Column, 0, len(cols))
	for _, c := range cols {
		if !c.Valid() {
			continue
		}
		t.cols = append(t.cols, c)
		header = append(header, listview.Column{ID: int(c), Title: c.Title(), Right: c.RightAligned()})
	}
	t.view.ReplaceColumns(header)
}

// SetColumns rebuilds the header. Cell text is reset and every item will be
// requested again.
func (t *Tab) SetColumns(cols []columns.Type) {
	t.setHeader(cols)
	for row := 0; row < t.view.ItemCount(); row++ {
		idx, _ := t.RowItem(row)
		t.setNameCell(row, t.items[idx].Name)
	}
	clear(t.requested)
}

// SetViewMode switches the presentation. Column results only land in
// details mode, so entering it re-arms lazy requests.
func (t *Tab) SetViewMode(m listview.ViewMode) {
	t.view.SetViewMode(m)
	if m == listview.ModeDetails {
		clear(t.requested)
	}
}

// Select moves the selection to row; an out of range row clears it.
func (t *Tab) Select(row int) {
	idx, ok := t.RowItem(row)
	t.selected, t.hasSelected = idx, ok
	t.win.onSelectionChanged(t)
}

// SelectedRow returns the row of the selected item.
func (t *Tab) SelectedRow() (int, bool) {
	if !t.hasSelected {
		return -1, false
	}
	return t.Row(t.selected)
}

// SelectedItem returns the snapshot of the selected item.
func (t *Tab) SelectedItem() (columns.ItemInfo, bool) {
	if !t.hasSelected {
		return columns.ItemInfo{}, false
	}
	return t.Item(t.selected)
}

// Title is the tab caption.
func (t *Tab) Title() string {
	if t.dir == "" {
		return "(empty)"
	}
	base := filepath.Base(t.dir)
	if base == string(filepath.Separator) || base == "." || strings.HasSuffix(base, ":") {
		return t.dir
	}
	return base
}
