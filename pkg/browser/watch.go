package browser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/dirwatch"
)

func (t *Tab) startWatch() {
	if !t.win.cfg.Watch || t.dir == "" {
		return
	}
	mb := t.win.mailbox
	id, err := t.win.watches.Watch(t.dir, t.win.cfg.WatchOptions, func(e dirwatch.Event) {
		mb.Post(DirectoryChangeMsg{WatchID: e.WatchID, Kind: e.Kind, Path: e.Path, OldPath: e.OldPath})
	})
	if err != nil {
		// The listing still works, it just won't update by itself.
		debug.Logger().Debug().Err(err).Str("dir", t.dir).Msg("browser: directory watch unavailable")
		return
	}
	t.watchID = id
	t.watchGen = t.generation
	debug.Trace("watch_started", map[string]any{"tab": int(t.id), "watch": uint64(id), "dir": t.dir})
}

func (t *Tab) stopWatch() {
	if t.watchID == 0 {
		return
	}
	t.win.watches.Stop(t.watchID)
	t.watchID = 0
}

func (w *Window) processDirectoryChange(msg DirectoryChangeMsg) bool {
	for _, id := range w.order {
		t := w.tabs[id]
		if t.watchID == 0 || t.watchID != msg.WatchID {
			continue
		}
		if t.watchGen != t.generation {
			w.discard("directory_change", uint64(msg.WatchID), "stale generation")
			return false
		}
		return t.applyChange(msg)
	}
	w.discard("directory_change", uint64(msg.WatchID), "watch gone")
	return false
}

func (t *Tab) applyChange(msg DirectoryChangeMsg) bool {
	switch msg.Kind {
	case dirwatch.Overflow:
		if err := t.Refresh(); err != nil {
			debug.Log("browser: refresh after overflow: %v", err)
			return false
		}
		return true
	case dirwatch.Renamed:
		oldChild, oldDirect := t.child(msg.OldPath)
		newChild, newDirect := t.child(msg.Path)
		switch {
		case oldDirect && newDirect:
			return t.RenameItem(msg.OldPath, msg.Path)
		case oldDirect:
			return t.RemoveItem(msg.OldPath)
		case newDirect:
			return t.AddItem(msg.Path)
		}
		changed := t.touch(oldChild)
		return t.touch(newChild) || changed
	}

	child, direct := t.child(msg.Path)
	if !direct {
		// Something changed below one of the listed folders.
		return t.touch(child)
	}
	switch msg.Kind {
	case dirwatch.Added:
		if _, ok := t.byPath[msg.Path]; ok {
			return t.ModifyItem(msg.Path)
		}
		return t.AddItem(msg.Path)
	case dirwatch.Removed:
		return t.RemoveItem(msg.Path)
	case dirwatch.Modified:
		return t.ModifyItem(msg.Path)
	}
	return false
}

// child maps path to the listed item it lives under. direct is true when
// path is itself an entry of the listed directory.
func (t *Tab) child(path string) (child string, direct bool) {
	rel, err := filepath.Rel(t.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, _, nested := strings.Cut(rel, string(filepath.Separator))
	return filepath.Join(t.dir, first), !nested
}

func (t *Tab) touch(child string) bool {
	if child == "" {
		return false
	}
	if _, ok := t.byPath[child]; !ok {
		return false
	}
	return t.ModifyItem(child)
}

// AddItem lists a new entry at path and requests its columns.
func (t *Tab) AddItem(path string) bool {
	if _, ok := t.byPath[path]; ok {
		return false
	}
	info, err := columns.Describe(path)
	if err != nil {
		return false
	}
	if info.Hidden() && !t.win.settings.ShowHidden {
		return false
	}
	idx := t.addListed(info)
	t.sortRows()
	row, _ := t.Row(idx)
	t.RequestRows(row, row)
	return true
}

// RemoveItem drops the entry at path from the listing.
func (t *Tab) RemoveItem(path string) bool {
	idx, ok := t.byPath[path]
	if !ok {
		return false
	}
	row, ok := t.Row(idx)
	if ok {
		t.view.DeleteItem(row)
	}
	delete(t.items, idx)
	delete(t.byPath, path)
	delete(t.requested, idx)
	if t.hasSelected && t.selected == idx {
		t.hasSelected = false
		t.win.onSelectionChanged(t)
	}
	return true
}

// ModifyItem takes a fresh snapshot of the entry at path and requests its
// columns again.
func (t *Tab) ModifyItem(path string) bool {
	idx, ok := t.byPath[path]
	if !ok {
		return false
	}
	info, err := columns.Describe(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t.RemoveItem(path)
		}
		return false
	}
	t.items[idx] = info
	t.requestItem(idx)
	if t.hasSelected && t.selected == idx {
		t.win.onSelectionChanged(t)
	}
	return true
}

// RenameItem moves the entry at oldPath to newPath. The item keeps its
// internal index, so results already in flight for it still apply.
func (t *Tab) RenameItem(oldPath, newPath string) bool {
	idx, ok := t.byPath[oldPath]
	if !ok {
		return t.AddItem(newPath)
	}
	info, err := columns.Describe(newPath)
	if err != nil {
		return t.RemoveItem(oldPath)
	}
	delete(t.byPath, oldPath)
	t.byPath[newPath] = idx
	t.items[idx] = info
	if row, ok := t.Row(idx); ok {
		t.setNameCell(row, info.Name)
	}
	t.requestItem(idx)
	t.sortRows()
	if t.hasSelected && t.selected == idx {
		t.win.onSelectionChanged(t)
	}
	return true
}
