package browser

import (
	"time"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/listview"
	"github.com/vanderheijden86/panes/pkg/metrics"
	"github.com/vanderheijden86/panes/pkg/results"
	"github.com/vanderheijden86/panes/pkg/workerpool"
)

// columnResult is what a column task hands back.
type columnResult struct {
	Index      InternalIndex
	Column     columns.Type
	Text       string
	Generation Generation
	Submitted  time.Time
}

// QueueColumnTask submits the computation of one column value and returns
// immediately. The item and the settings are snapshotted now; the result
// arrives as a ColumnResultMsg. It reports false for unknown items.
func (t *Tab) QueueColumnTask(idx InternalIndex, col columns.Type) (results.ID, bool) {
	info, ok := t.items[idx]
	if !ok {
		return 0, false
	}
	settings := t.win.settings
	gen := t.generation
	id := t.ids.Next()
	tabID := t.id
	mb := t.win.mailbox
	ctx := t.win.ctx
	submitted := time.Now()

	f := workerpool.Submit(t.win.pool, func() columnResult {
		return columnResult{
			Index:      idx,
			Column:     col,
			Text:       columns.Text(ctx, col, info, settings),
			Generation: gen,
			Submitted:  submitted,
		}
	}, func() {
		mb.Post(ColumnResultMsg{TabID: tabID, ID: id})
	})
	t.table.Insert(id, f)

	seen := t.requested[idx]
	if seen == nil {
		seen = make(map[columns.Type]bool)
		t.requested[idx] = seen
	}
	seen[col] = true
	return id, true
}

// ProcessColumnResult merges result id into the list view if it still
// applies to what is on screen, and reports whether it did.
func (t *Tab) ProcessColumnResult(id results.ID) bool {
	res, err, ok := t.table.TryTake(id)
	if !ok {
		// Already consumed, or dropped by a teardown.
		return false
	}
	discard := func(reason string) bool {
		t.win.discard("column", uint64(id), reason)
		return false
	}
	switch {
	case err != nil:
		debug.Log("browser: column task %d failed: %v", id, err)
		return discard("task failed")
	case t.view.ViewMode() != listview.ModeDetails:
		return discard("not in details view")
	case res.Generation != t.generation:
		return discard("stale generation")
	}

	row, ok := t.view.FindItemByParam(int(res.Index))
	if !ok {
		return discard("item gone")
	}
	col, ok := t.view.FindColumn(int(res.Column))
	if !ok {
		return discard("column gone")
	}

	t.view.SetItemText(row, col, res.Text)
	metrics.DispatchLatency.Record(time.Since(res.Submitted))
	t.win.applied("column", uint64(id))
	return true
}

// RequestRows queues every column value not yet requested for rows first
// through last, the rows the list view is about to draw. It returns the
// number of tasks queued.
func (t *Tab) RequestRows(first, last int) int {
	if t.view.ViewMode() != listview.ModeDetails {
		return 0
	}
	first = max(first, 0)
	last = min(last, t.view.ItemCount()-1)

	queued := 0
	for row := first; row <= last; row++ {
		idx, ok := t.RowItem(row)
		if !ok {
			continue
		}
		for _, col := range t.cols {
			// The name is written when the row is inserted.
			if col == columns.Name || t.requested[idx][col] {
				continue
			}
			if _, ok := t.QueueColumnTask(idx, col); ok {
				queued++
			}
		}
	}
	return queued
}

// RequestAll queues every outstanding column value for the listing.
func (t *Tab) RequestAll() int {
	return t.RequestRows(0, t.view.ItemCount()-1)
}

// requestItem queues every column for one item regardless of history.
func (t *Tab) requestItem(idx InternalIndex) {
	delete(t.requested, idx)
	if t.view.ViewMode() != listview.ModeDetails {
		return
	}
	for _, col := range t.cols {
		if col != columns.Name {
			t.QueueColumnTask(idx, col)
		}
	}
}

// requeueRequested asks again for everything that was requested before.
func (t *Tab) requeueRequested() {
	prev := t.requested
	t.requested = make(map[InternalIndex]map[columns.Type]bool)
	if t.view.ViewMode() != listview.ModeDetails {
		return
	}
	for idx, cols := range prev {
		for col := range cols {
			t.QueueColumnTask(idx, col)
		}
	}
}
