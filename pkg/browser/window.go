package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/dirwatch"
	"github.com/vanderheijden86/panes/pkg/foldersize"
	"github.com/vanderheijden86/panes/pkg/listview"
	"github.com/vanderheijden86/panes/pkg/metrics"
	"github.com/vanderheijden86/panes/pkg/notify"
	"github.com/vanderheijden86/panes/pkg/results"
	"github.com/vanderheijden86/panes/pkg/workerpool"
)

// Sizer computes the recursive size of a folder on a worker.
type Sizer func(ctx context.Context, path string) foldersize.Result

// WindowConfig configures a Window.
type WindowConfig struct {
	// Workers sizes a new pool when Pool is nil. Zero means one per CPU.
	Workers int
	// Pool, when set, is shared and not closed by the window.
	Pool *workerpool.Pool
	// Mailbox, when set, receives notifications instead of a new one.
	Mailbox *notify.Mailbox

	Settings columns.Settings
	// Columns is the header layout for new tabs.
	Columns []columns.Type

	// Watch enables live directory notifications for listings.
	Watch        bool
	WatchOptions dirwatch.Options

	// Sizer overrides the folder size computation.
	Sizer Sizer
}

// DefaultWindowConfig returns the configuration used by the front end.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Settings:     columns.DefaultSettings(),
		Columns:      columns.DefaultSet(),
		Watch:        true,
		WatchOptions: dirwatch.DefaultOptions(),
	}
}

type folderSizeEntry struct {
	id     results.ID
	tabID  TabID
	valid  bool
	future *workerpool.Future[foldersize.Result]
}

type detailsEntry struct {
	id     results.ID
	tabID  TabID
	valid  bool
	future *workerpool.Future[detailsResult]
}

// Window owns the tabs, the worker pool and the shared UI sinks.
type Window struct {
	cfg      WindowConfig
	pool     *workerpool.Pool
	ownsPool bool
	mailbox  *notify.Mailbox
	display  *listview.DisplayWindow
	settings columns.Settings
	watches  *dirwatch.Manager

	tabs     map[TabID]*Tab
	order    []TabID
	selected TabID
	nextTab  TabID

	sizeIDs  results.Counter
	sizes    []*folderSizeEntry
	lastSize *foldersize.Result

	detailIDs results.Counter
	details   []*detailsEntry

	// ctx is handed to every task; Close cancels it so walks in flight
	// stop before the pool is joined.
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewWindow creates a window with no tabs.
func NewWindow(cfg WindowConfig) *Window {
	if len(cfg.Columns) == 0 {
		cfg.Columns = columns.DefaultSet()
	}
	if cfg.Sizer == nil {
		cfg.Sizer = func(ctx context.Context, path string) foldersize.Result {
			return foldersize.Path(ctx, path, foldersize.DefaultOptions())
		}
	}
	w := &Window{
		cfg:      cfg,
		pool:     cfg.Pool,
		mailbox:  cfg.Mailbox,
		display:  listview.NewDisplayWindow(),
		settings: cfg.Settings,
		watches:  dirwatch.NewManager(),
		tabs:     make(map[TabID]*Tab),
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	if w.pool == nil {
		w.pool = workerpool.New(cfg.Workers)
		w.ownsPool = true
	}
	if w.mailbox == nil {
		w.mailbox = notify.NewMailbox()
	}
	return w
}

// Mailbox returns the queue workers post notifications to.
func (w *Window) Mailbox() *notify.Mailbox { return w.mailbox }

// Display returns the display window sink.
func (w *Window) Display() *listview.DisplayWindow { return w.display }

// SetDisplayVisible shows or hides the display window. Work finishing while
// it is hidden is discarded, so showing it again refreshes the selection.
func (w *Window) SetDisplayVisible(v bool) {
	was := w.display.Visible()
	w.display.SetVisible(v)
	if v && !was {
		if t := w.SelectedTab(); t != nil {
			w.updateDisplay(t)
		}
	}
}

// Pool returns the worker pool.
func (w *Window) Pool() *workerpool.Pool { return w.pool }

// Watches returns the directory watch manager.
func (w *Window) Watches() *dirwatch.Manager { return w.watches }

// Settings returns the current settings snapshot.
func (w *Window) Settings() columns.Settings { return w.settings }

// SetSettings replaces the settings snapshot. Every column value that was
// already requested is requested again under the new settings.
func (w *Window) SetSettings(s columns.Settings) {
	w.settings = s
	for _, id := range w.order {
		w.tabs[id].requeueRequested()
	}
	if t := w.SelectedTab(); t != nil {
		w.updateDisplay(t)
	}
}

// NewTab adds an empty tab and selects it if it is the first.
func (w *Window) NewTab() *Tab {
	w.nextTab++
	t := newTab(w, w.nextTab, w.cfg.Columns)
	w.tabs[t.id] = t
	w.order = append(w.order, t.id)
	if w.selected == 0 {
		w.selected = t.id
	}
	return t
}

// Tab returns the tab with id, or nil.
func (w *Window) Tab(id TabID) *Tab { return w.tabs[id] }

// Tabs returns the tabs in display order.
func (w *Window) Tabs() []*Tab {
	out := make([]*Tab, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.tabs[id])
	}
	return out
}

// SelectedTab returns the active tab, or nil when there is none.
func (w *Window) SelectedTab() *Tab { return w.tabs[w.selected] }

// SelectTab makes id the active tab.
func (w *Window) SelectTab(id TabID) error {
	t, ok := w.tabs[id]
	if !ok {
		return fmt.Errorf("select tab %d: no such tab", id)
	}
	w.selected = id
	w.updateDisplay(t)
	return nil
}

// CloseTab tears the tab down. Outstanding work for it is abandoned and
// its notifications are discarded when they arrive.
func (w *Window) CloseTab(id TabID) error {
	t, ok := w.tabs[id]
	if !ok {
		return fmt.Errorf("close tab %d: no such tab", id)
	}
	t.Teardown()
	w.invalidateDisplayWork(id)
	delete(w.tabs, id)

	i := slices.Index(w.order, id)
	w.order = slices.Delete(w.order, i, i+1)
	if w.selected == id {
		w.selected = 0
		if len(w.order) > 0 {
			w.selected = w.order[min(i, len(w.order)-1)]
			w.updateDisplay(w.tabs[w.selected])
		} else {
			w.display.Clear()
		}
	}
	return nil
}

// Dispatch handles one notification on the UI goroutine and reports whether
// any UI state changed. Unknown messages are ignored.
func (w *Window) Dispatch(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ColumnResultMsg:
		t, ok := w.tabs[msg.TabID]
		if !ok {
			w.discard("column", uint64(msg.ID), "tab closed")
			return false
		}
		return t.ProcessColumnResult(msg.ID)
	case FolderSizeMsg:
		return w.processFolderSize(msg.ID)
	case DisplayDetailsMsg:
		return w.processDetails(msg.ID)
	case DirectoryChangeMsg:
		return w.processDirectoryChange(msg)
	}
	return false
}

// Pending returns the number of outstanding column, folder size and
// display detail entries across the window.
func (w *Window) Pending() int {
	n := len(w.sizes) + len(w.details)
	for _, t := range w.tabs {
		n += t.table.Len()
	}
	return n
}

// DrainPending dispatches notifications until nothing is outstanding or ctx
// ends. Headless front ends use it in place of an event loop.
func (w *Window) DrainPending(ctx context.Context) error {
	for w.Pending() > 0 {
		msg, ok := w.mailbox.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return notify.ErrClosed
		}
		w.Dispatch(msg)
	}
	return nil
}

// Close tears down every tab, stops all watches and shuts the pool down if
// the window created it. Tasks still running see their context cancelled.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.cancel()
	for _, id := range w.order {
		w.tabs[id].Teardown()
	}
	w.watches.StopAll()
	w.sizes = nil
	w.details = nil
	if w.ownsPool {
		w.pool.Close()
	}
	w.mailbox.Close()
}

func (w *Window) post(msg tea.Msg) {
	w.mailbox.Post(msg)
}

func (w *Window) discard(kind string, id uint64, reason string) {
	metrics.ResultsDiscarded.Inc()
	debug.Log("browser: discard %s result %d: %s", kind, id, reason)
	debug.Trace("result_discarded", map[string]any{"kind": kind, "id": id, "reason": reason})
}

func (w *Window) applied(kind string, id uint64) {
	metrics.ResultsApplied.Inc()
	debug.Trace("result_applied", map[string]any{"kind": kind, "id": id})
}

// onSelectionChanged runs after a tab's selection moves.
func (w *Window) onSelectionChanged(t *Tab) {
	w.invalidateDisplayWork(t.id)
	if w.selected == t.id {
		w.updateDisplay(t)
	}
}

// updateDisplay rewrites the display window for the tab's selection.
func (w *Window) updateDisplay(t *Tab) {
	d := w.display
	d.Clear()

	info, ok := t.SelectedItem()
	if !ok {
		if t.dir != "" {
			d.SetDisplayLine(NameLine, filepath.Base(t.dir))
			d.SetDisplayLine(TypeLine, "File folder")
		}
		return
	}

	d.SetDisplayLine(NameLine, info.Name)
	if info.IsDir() && w.settings.ShowFolderSizes {
		d.SetDisplayLine(FolderSizeLine, "Total size: Calculating...")
		w.RequestFolderSize(info.Path, t.id)
	} else {
		d.SetDisplayLine(TypeLine, columns.Text(w.ctx, columns.TypeName, info, w.settings))
	}
	date := columns.FormatTime(info.ModTime, w.settings.FriendlyDates, w.settings.CurrentTime())
	d.SetDisplayLine(DateLine, "Date modified: "+date)
	w.RequestDetails(info, t.id)
}

// invalidateDisplayWork marks every folder size and detail request for the
// tab as no longer wanted.
func (w *Window) invalidateDisplayWork(tabID TabID) {
	w.invalidateFolderSizes(tabID)
	w.invalidateDetails(tabID)
}
