// Package listview is the in-memory model of the two UI sinks the engine
// writes into: the item list view and the display window.
//
// Both types are confined to the UI goroutine.
package listview

import (
	"slices"
	"sort"
)

// ViewMode is the list view presentation.
type ViewMode int

const (
	ModeDetails ViewMode = iota
	ModeList
	ModeIcons
)

func (m ViewMode) String() string {
	switch m {
	case ModeDetails:
		return "details"
	case ModeList:
		return "list"
	case ModeIcons:
		return "icons"
	}
	return "unknown"
}

// Column is one header entry. ID holds the column type.
type Column struct {
	ID    int
	Title string
	Right bool
}

type row struct {
	param int
	cells []string
}

// ListView holds rows keyed by an opaque param and a header of typed
// columns. Cell text is indexed by column position.
type ListView struct {
	rows      []row
	columns   []Column
	mode      ViewMode
	mutations int
}

// New returns an empty list view in details mode.
func New() *ListView {
	return &ListView{}
}

// InsertItem inserts a row at index (clamped to the valid range) with text
// in the first column and returns the row's index.
func (lv *ListView) InsertItem(index, param int, text string) int {
	if index < 0 || index > len(lv.rows) {
		index = len(lv.rows)
	}
	r := row{param: param, cells: make([]string, max(len(lv.columns), 1))}
	r.cells[0] = text
	lv.rows = slices.Insert(lv.rows, index, r)
	return index
}

// DeleteItem removes the row at index.
func (lv *ListView) DeleteItem(index int) bool {
	if index < 0 || index >= len(lv.rows) {
		return false
	}
	lv.rows = slices.Delete(lv.rows, index, index+1)
	return true
}

// DeleteAllItems removes every row.
func (lv *ListView) DeleteAllItems() {
	lv.rows = nil
}

// ItemCount returns the number of rows.
func (lv *ListView) ItemCount() int {
	return len(lv.rows)
}

// ItemParam returns the param stored on a row.
func (lv *ListView) ItemParam(index int) (int, bool) {
	if index < 0 || index >= len(lv.rows) {
		return 0, false
	}
	return lv.rows[index].param, true
}

// FindItemByParam returns the current row index of the row carrying param.
func (lv *ListView) FindItemByParam(param int) (int, bool) {
	for i, r := range lv.rows {
		if r.param == param {
			return i, true
		}
	}
	return -1, false
}

// SetItemText sets one cell.
func (lv *ListView) SetItemText(index, col int, text string) bool {
	if index < 0 || index >= len(lv.rows) || col < 0 || col >= max(len(lv.columns), 1) {
		return false
	}
	lv.rows[index].cells[col] = text
	lv.mutations++
	return true
}

// ItemText returns one cell.
func (lv *ListView) ItemText(index, col int) string {
	if index < 0 || index >= len(lv.rows) {
		return ""
	}
	cells := lv.rows[index].cells
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// SortItems reorders rows with a comparison over their params.
func (lv *ListView) SortItems(less func(a, b int) bool) {
	sort.SliceStable(lv.rows, func(i, j int) bool {
		return less(lv.rows[i].param, lv.rows[j].param)
	})
}

// InsertColumn adds a header entry at index. Cell text shifts with it. The
// first column inserted into an empty header adopts the text given to
// InsertItem.
func (lv *ListView) InsertColumn(index int, c Column) int {
	if index < 0 || index > len(lv.columns) {
		index = len(lv.columns)
	}
	adopt := len(lv.columns) == 0
	lv.columns = slices.Insert(lv.columns, index, c)
	if adopt {
		return index
	}
	for i := range lv.rows {
		lv.rows[i].cells = slices.Insert(lv.rows[i].cells, index, "")
	}
	return index
}

// ReplaceColumns installs a new header and blanks every cell.
func (lv *ListView) ReplaceColumns(cols []Column) {
	lv.columns = slices.Clone(cols)
	for i := range lv.rows {
		lv.rows[i].cells = make([]string, max(len(lv.columns), 1))
	}
}

// DeleteColumn removes the header entry and cells at index.
func (lv *ListView) DeleteColumn(index int) bool {
	if index < 0 || index >= len(lv.columns) {
		return false
	}
	lv.columns = slices.Delete(lv.columns, index, index+1)
	for i := range lv.rows {
		// Rows always keep at least one cell.
		if cells := lv.rows[i].cells; len(cells) > 1 {
			lv.rows[i].cells = slices.Delete(cells, index, index+1)
		}
	}
	return true
}

// ColumnCount returns the number of header entries.
func (lv *ListView) ColumnCount() int {
	return len(lv.columns)
}

// ColumnID returns the id stored in the header at index.
func (lv *ListView) ColumnID(index int) (int, bool) {
	if index < 0 || index >= len(lv.columns) {
		return 0, false
	}
	return lv.columns[index].ID, true
}

// FindColumn scans the header for id.
func (lv *ListView) FindColumn(id int) (int, bool) {
	for i, c := range lv.columns {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Columns returns a copy of the header.
func (lv *ListView) Columns() []Column {
	return slices.Clone(lv.columns)
}

// SetViewMode switches presentation.
func (lv *ListView) SetViewMode(m ViewMode) {
	lv.mode = m
}

// ViewMode returns the current presentation.
func (lv *ListView) ViewMode() ViewMode {
	return lv.mode
}

// Mutations counts successful SetItemText calls.
func (lv *ListView) Mutations() int {
	return lv.mutations
}
