package browser

import (
	"slices"
	"strconv"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/results"
	"github.com/vanderheijden86/panes/pkg/volume"
	"github.com/vanderheijden86/panes/pkg/workerpool"
)

// detailsResult is the extra information shown under the date line. Only
// one half applies to any item.
type detailsResult struct {
	Width, Height int
	IsImage       bool

	Free, Total uint64
	HasSpace    bool
}

// RequestDetails reads the image dimensions of a file, or the free space of
// the volume holding a folder, on a worker. Like folder sizes, only the
// newest request for a tab can reach the display window.
func (w *Window) RequestDetails(info columns.ItemInfo, tabID TabID) results.ID {
	w.invalidateDetails(tabID)

	id := w.detailIDs.Next()
	entry := &detailsEntry{id: id, tabID: tabID, valid: true}
	w.details = append(w.details, entry)

	path, dir := info.Path, info.IsDir()
	mb := w.mailbox
	entry.future = workerpool.Submit(w.pool, func() detailsResult {
		var r detailsResult
		if dir {
			r.Total, r.Free, r.HasSpace = volume.Space(path)
		} else {
			r.Width, r.Height, r.IsImage = columns.ImageSize(path)
		}
		return r
	}, func() {
		mb.Post(DisplayDetailsMsg{ID: id})
	})
	return id
}

// PendingDetails returns the number of detail entries awaiting their
// notification.
func (w *Window) PendingDetails() int { return len(w.details) }

func (w *Window) invalidateDetails(tabID TabID) {
	for _, e := range w.details {
		if e.tabID == tabID {
			e.valid = false
		}
	}
}

func (w *Window) processDetails(id results.ID) bool {
	i := slices.IndexFunc(w.details, func(e *detailsEntry) bool { return e.id == id })
	if i < 0 {
		return false
	}
	e := w.details[i]
	w.details = slices.Delete(w.details, i, i+1)

	res, err := e.future.Get()
	switch {
	case err != nil:
		debug.Log("browser: display details %d failed: %v", id, err)
		w.discard("details", uint64(id), "task failed")
		return false
	case !e.valid:
		w.discard("details", uint64(id), "invalidated")
		return false
	case w.selected != e.tabID:
		w.discard("details", uint64(id), "tab not selected")
		return false
	case !w.display.Visible():
		w.discard("details", uint64(id), "display hidden")
		return false
	}

	s := w.settings
	switch {
	case res.IsImage:
		w.display.SetDisplayLine(ImageWidthLine, "Width: "+strconv.Itoa(res.Width)+" pixels")
		w.display.SetDisplayLine(ImageHeightLine, "Height: "+strconv.Itoa(res.Height)+" pixels")
	case res.HasSpace:
		w.display.SetDisplayLine(FreeSpaceLine, "Free space: "+columns.FormatSize(res.Free, s.ForceSize, s.SizeUnit))
		w.display.SetDisplayLine(VolumeTotalLine, "Volume size: "+columns.FormatSize(res.Total, s.ForceSize, s.SizeUnit))
	default:
		w.discard("details", uint64(id), "nothing to show")
		return false
	}
	w.applied("details", uint64(id))
	return true
}
