package browser

import (
	"slices"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/foldersize"
	"github.com/vanderheijden86/panes/pkg/results"
	"github.com/vanderheijden86/panes/pkg/workerpool"
)

// RequestFolderSize starts a recursive size walk of path on behalf of tab
// tabID. Entries already outstanding for the tab are invalidated first: only
// the newest request for a tab can reach the display window.
func (w *Window) RequestFolderSize(path string, tabID TabID) results.ID {
	w.invalidateFolderSizes(tabID)

	id := w.sizeIDs.Next()
	entry := &folderSizeEntry{id: id, tabID: tabID, valid: true}
	w.sizes = append(w.sizes, entry)

	sizer := w.cfg.Sizer
	mb := w.mailbox
	ctx := w.ctx
	entry.future = workerpool.Submit(w.pool, func() foldersize.Result {
		return sizer(ctx, path)
	}, func() {
		mb.Post(FolderSizeMsg{ID: id})
	})
	debug.Trace("folder_size_requested", map[string]any{"id": uint64(id), "tab": int(tabID), "path": path})
	return id
}

// LastFolderSize returns the most recent folder size that reached the
// display window.
func (w *Window) LastFolderSize() (foldersize.Result, bool) {
	if w.lastSize == nil {
		return foldersize.Result{}, false
	}
	return *w.lastSize, true
}

// PendingFolderSizes returns the number of folder size entries awaiting
// their notification, valid or not.
func (w *Window) PendingFolderSizes() int { return len(w.sizes) }

func (w *Window) invalidateFolderSizes(tabID TabID) {
	for _, e := range w.sizes {
		if e.tabID == tabID {
			e.valid = false
		}
	}
}

func (w *Window) processFolderSize(id results.ID) bool {
	i := slices.IndexFunc(w.sizes, func(e *folderSizeEntry) bool { return e.id == id })
	if i < 0 {
		return false
	}
	e := w.sizes[i]
	w.sizes = slices.Delete(w.sizes, i, i+1)

	res, err := e.future.Get()
	switch {
	case err != nil:
		debug.Log("browser: folder size %d failed: %v", id, err)
		w.discard("folder_size", uint64(id), "task failed")
		return false
	case !e.valid:
		w.discard("folder_size", uint64(id), "invalidated")
		return false
	case w.selected != e.tabID:
		w.discard("folder_size", uint64(id), "tab not selected")
		return false
	case !w.display.Visible():
		w.discard("folder_size", uint64(id), "display hidden")
		return false
	}

	text := columns.FormatSize(res.Bytes, w.settings.ForceSize, w.settings.SizeUnit)
	w.display.SetDisplayLine(FolderSizeLine, "Total size: "+text)
	w.lastSize = &res
	w.applied("folder_size", uint64(id))
	return true
}
