// Package ui is the terminal front end: a Bubble Tea model that renders a
// browser.Window and feeds engine notifications back into it.
//
// Update is the UI goroutine. Worker notifications reach it through
// notify.WaitCmd, which is re-armed after every engine message, so at most
// one wait is in flight at a time.
package ui

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/panes/pkg/browser"
	"github.com/vanderheijden86/panes/pkg/debug"
	"github.com/vanderheijden86/panes/pkg/listview"
	"github.com/vanderheijden86/panes/pkg/notify"
)

// Options configures a Model.
type Options struct {
	// Bookmarks maps number keys 1-9 to directories.
	Bookmarks map[int]string
	// HideDisplayWindow starts with the information pane closed.
	HideDisplayWindow bool
	// CopyToClipboard replaces the system clipboard, mainly for tests.
	CopyToClipboard func(string) error
}

// Model is the Bubble Tea model for panes.
type Model struct {
	win   *browser.Window
	theme Theme
	keys  keyMap
	help  help.Model
	opts  Options

	width  int
	height int
	// First visible row per tab.
	offsets map[browser.TabID]int

	statusMsg     string
	statusIsError bool
	quitting      bool
}

// NewModel wraps win, which must already have at least one tab.
func NewModel(win *browser.Window, opts Options) Model {
	if opts.CopyToClipboard == nil {
		opts.CopyToClipboard = clipboard.WriteAll
	}
	win.SetDisplayVisible(!opts.HideDisplayWindow)
	return Model{
		win:     win,
		theme:   TestTheme(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		opts:    opts,
		width:   120,
		height:  40,
		offsets: make(map[browser.TabID]int),
	}
}

// WithTheme replaces the theme.
func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	return m
}

// Window returns the wrapped window.
func (m Model) Window() *browser.Window { return m.win }

// Init queues the first screen of column values and starts draining the
// mailbox. Bubble Tea calls it on the same goroutine as Update.
func (m Model) Init() tea.Cmd {
	m.requestVisible()
	return notify.WaitCmd(m.win.Mailbox())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		m.requestVisible()
		return m, nil

	case browser.ColumnResultMsg, browser.FolderSizeMsg, browser.DisplayDetailsMsg:
		m.win.Dispatch(msg)
		return m, notify.WaitCmd(m.win.Mailbox())

	case browser.DirectoryChangeMsg:
		if m.win.Dispatch(msg) {
			m.ensureVisible()
			m.requestVisible()
		}
		return m, notify.WaitCmd(m.win.Mailbox())

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tab := m.win.SelectedTab()
	if tab == nil {
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(tab, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(tab, 1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(tab, -m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(tab, m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.selectRow(tab, 0)
	case key.Matches(msg, m.keys.End):
		m.selectRow(tab, tab.View().ItemCount()-1)
	case key.Matches(msg, m.keys.Open):
		if info, ok := tab.SelectedItem(); ok && info.IsDir() {
			m.navigate(tab, info.Path, "")
		}
	case key.Matches(msg, m.keys.Parent):
		if dir := tab.Dir(); dir != "" {
			if parent := filepath.Dir(dir); parent != dir {
				m.navigate(tab, parent, dir)
			}
		}
	case key.Matches(msg, m.keys.Refresh):
		m.reportErr(tab.Refresh())
	case key.Matches(msg, m.keys.NewTab):
		m.newTab(tab.Dir())
	case key.Matches(msg, m.keys.CloseTab):
		if len(m.win.Tabs()) == 1 {
			m.setStatus("cannot close the last tab", true)
			break
		}
		id := tab.ID()
		m.reportErr(m.win.CloseTab(id))
		delete(m.offsets, id)
	case key.Matches(msg, m.keys.NextTab):
		m.cycleTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.cycleTab(-1)
	case key.Matches(msg, m.keys.Sort):
		cols := tab.Columns()
		cur, asc := tab.SortColumn()
		next := cols[(slices.Index(cols, cur)+1)%len(cols)]
		tab.SortBy(next, asc)
		m.setStatus(fmt.Sprintf("sorted by %s", next.Title()), false)
	case key.Matches(msg, m.keys.Reverse):
		cur, asc := tab.SortColumn()
		tab.SortBy(cur, !asc)
	case key.Matches(msg, m.keys.ViewMode):
		if tab.View().ViewMode() == listview.ModeDetails {
			tab.SetViewMode(listview.ModeList)
		} else {
			tab.SetViewMode(listview.ModeDetails)
		}
	case key.Matches(msg, m.keys.Display):
		m.win.SetDisplayVisible(!m.win.Display().Visible())
	case key.Matches(msg, m.keys.Hidden):
		s := m.win.Settings()
		s.ShowHidden = !s.ShowHidden
		m.win.SetSettings(s)
		for _, t := range m.win.Tabs() {
			m.reportErr(t.Refresh())
		}
	case key.Matches(msg, m.keys.Copy):
		if info, ok := tab.SelectedItem(); ok {
			if err := m.opts.CopyToClipboard(info.Path); err != nil {
				m.setStatus(fmt.Sprintf("clipboard: %v", err), true)
			} else {
				m.setStatus("copied "+info.Path, false)
			}
		}
	case key.Matches(msg, m.keys.Bookmark):
		n := int(msg.String()[0] - '0')
		if dir, ok := m.opts.Bookmarks[n]; ok && dir != "" {
			m.navigate(tab, dir, "")
		} else {
			m.setStatus(fmt.Sprintf("no bookmark %d", n), true)
		}
	default:
		return m, nil
	}

	m.ensureVisible()
	m.requestVisible()
	return m, nil
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg, m.statusIsError = msg, isError
}

func (m *Model) reportErr(err error) {
	if err != nil {
		debug.Log("ui: %v", err)
		m.setStatus(err.Error(), true)
	}
}

// navigate lists dir in tab and, when reselect is set, puts the cursor on
// that path.
func (m *Model) navigate(tab *browser.Tab, dir, reselect string) {
	if err := tab.Navigate(dir); err != nil {
		m.reportErr(err)
		return
	}
	m.offsets[tab.ID()] = 0
	if reselect == "" {
		return
	}
	if idx, ok := tab.Lookup(reselect); ok {
		if row, ok := tab.Row(idx); ok {
			tab.Select(row)
		}
	}
}

func (m *Model) newTab(dir string) {
	tab := m.win.NewTab()
	if dir != "" {
		if err := tab.Navigate(dir); err != nil {
			m.reportErr(err)
		}
	}
	m.reportErr(m.win.SelectTab(tab.ID()))
}

func (m *Model) cycleTab(delta int) {
	tabs := m.win.Tabs()
	cur := m.win.SelectedTab()
	i := slices.Index(tabs, cur)
	next := tabs[((i+delta)%len(tabs)+len(tabs))%len(tabs)]
	m.reportErr(m.win.SelectTab(next.ID()))
}

func (m *Model) moveCursor(tab *browser.Tab, delta int) {
	row, ok := tab.SelectedRow()
	if !ok {
		row = -1
		if delta < 0 {
			row = tab.View().ItemCount()
		}
	}
	m.selectRow(tab, row+delta)
}

func (m *Model) selectRow(tab *browser.Tab, row int) {
	n := tab.View().ItemCount()
	if n == 0 {
		return
	}
	row = min(max(row, 0), n-1)
	if cur, ok := tab.SelectedRow(); ok && cur == row {
		return
	}
	tab.Select(row)
}

// listHeight is the number of list rows that fit on screen.
func (m Model) listHeight() int {
	// tab bar, path, column titles and footer
	h := m.height - 4
	if m.win.Display().Visible() {
		h -= displayPaneHeight
	}
	return max(h, 1)
}

func (m *Model) ensureVisible() {
	tab := m.win.SelectedTab()
	if tab == nil {
		return
	}
	off := m.offsets[tab.ID()]
	h := m.listHeight()
	if row, ok := tab.SelectedRow(); ok {
		if row < off {
			off = row
		} else if row >= off+h {
			off = row - h + 1
		}
	}
	off = min(off, max(tab.View().ItemCount()-h, 0))
	m.offsets[tab.ID()] = max(off, 0)
}

// requestVisible asks for the column values of the rows on screen.
func (m Model) requestVisible() {
	tab := m.win.SelectedTab()
	if tab == nil {
		return
	}
	off := m.offsets[tab.ID()]
	tab.RequestRows(off, off+m.listHeight()-1)
}
