package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/panes/pkg/browser"
	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/listview"
	"github.com/vanderheijden86/panes/pkg/testutil"
)

func newTestModel(t *testing.T, files map[string]string, opts Options) (Model, string) {
	t.Helper()
	dir := testutil.TempTree(t, files)
	cfg := browser.DefaultWindowConfig()
	cfg.Workers = 2
	cfg.Watch = false
	w := browser.NewWindow(cfg)
	t.Cleanup(w.Close)
	if err := w.NewTab().Navigate(dir); err != nil {
		t.Fatal(err)
	}
	m := NewModel(w, opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, dir
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	um, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return um
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pump feeds mailbox messages through Update until nothing is pending, the
// way the WaitCmd loop would.
func pump(t *testing.T, m Model) Model {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for m.Window().Pending() > 0 {
		msg, ok := m.Window().Mailbox().Next(ctx)
		if !ok {
			t.Fatalf("timed out with %d pending", m.Window().Pending())
		}
		m = update(t, m, msg)
	}
	return m
}

func TestResizeRequestsVisibleRows(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a.txt": "hello", "b.txt": "hi"}, Options{})
	tab := m.Window().SelectedTab()
	if tab.PendingColumns() == 0 {
		t.Fatal("no column work queued for visible rows")
	}
	m = pump(t, m)

	idx, _ := tab.Lookup(filepath.Join(dir, "a.txt"))
	row, _ := tab.Row(idx)
	col, _ := tab.View().FindColumn(int(columns.Size))
	if got := tab.View().ItemText(row, col); got != "5 bytes" {
		t.Errorf("size cell = %q", got)
	}
	if !strings.Contains(m.View(), "5 bytes") {
		t.Error("rendered view lacks the size")
	}
}

func TestEngineMessageRearmsWait(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": "a"}, Options{})
	for _, msg := range []tea.Msg{browser.FolderSizeMsg{ID: 99}, browser.DisplayDetailsMsg{ID: 99}} {
		if _, cmd := m.Update(msg); cmd == nil {
			t.Errorf("%T did not re-arm the mailbox wait", msg)
		}
	}
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if cmd != nil {
		t.Error("resize should not issue commands")
	}
}

func TestCursorMovesSelection(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": "a", "b": "b", "c": "c"}, Options{})
	tab := m.Window().SelectedTab()
	if _, ok := tab.SelectedRow(); ok {
		t.Fatal("fresh listing should have no selection")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if row, _ := tab.SelectedRow(); row != 1 {
		t.Errorf("row after two downs = %d", row)
	}
	if got := m.Window().Display().Line(browser.NameLine); got != "b" {
		t.Errorf("display name = %q", got)
	}
	m = update(t, m, keyRunes("G"))
	if row, _ := tab.SelectedRow(); row != 2 {
		t.Errorf("row after End = %d", row)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if row, _ := tab.SelectedRow(); row != 2 {
		t.Errorf("cursor moved past the last row: %d", row)
	}
	update(t, m, keyRunes("g"))
	if row, _ := tab.SelectedRow(); row != 0 {
		t.Errorf("row after Home = %d", row)
	}
}

func TestOpenFolderAndReturn(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"sub/inner.txt": "x", "z.txt": "z"}, Options{})
	tab := m.Window().SelectedTab()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sub := filepath.Join(dir, "sub")
	if tab.Dir() != sub {
		t.Fatalf("dir after enter = %q, want %q", tab.Dir(), sub)
	}
	if _, ok := tab.Lookup(filepath.Join(sub, "inner.txt")); !ok {
		t.Error("folder contents not listed")
	}

	update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if tab.Dir() != dir {
		t.Fatalf("dir after backspace = %q", tab.Dir())
	}
	info, ok := tab.SelectedItem()
	if !ok || info.Path != sub {
		t.Errorf("cursor not back on the folder we left: %+v", info)
	}
}

func TestTabKeys(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a": "a"}, Options{})
	w := m.Window()
	first := w.SelectedTab()

	m = update(t, m, keyRunes("t"))
	if len(w.Tabs()) != 2 || w.SelectedTab() == first {
		t.Fatal("new tab not opened and selected")
	}
	if w.SelectedTab().Dir() != dir {
		t.Errorf("new tab dir = %q", w.SelectedTab().Dir())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if w.SelectedTab() != first {
		t.Error("tab did not cycle")
	}
	m = update(t, m, keyRunes("w"))
	if len(w.Tabs()) != 1 {
		t.Fatalf("tabs after close = %d", len(w.Tabs()))
	}
	m = update(t, m, keyRunes("w"))
	if len(w.Tabs()) != 1 || !m.statusIsError {
		t.Error("closing the last tab should be refused")
	}
}

func TestSortAndViewKeys(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": "a"}, Options{})
	tab := m.Window().SelectedTab()

	m = update(t, m, keyRunes("s"))
	if col, _ := tab.SortColumn(); col != columns.TypeName {
		t.Errorf("sort column after s = %v", col)
	}
	m = update(t, m, keyRunes("r"))
	if _, asc := tab.SortColumn(); asc {
		t.Error("r did not reverse the sort")
	}
	m = update(t, m, keyRunes("v"))
	if tab.View().ViewMode() != listview.ModeList {
		t.Error("v did not switch to list mode")
	}
	update(t, m, keyRunes("d"))
	if m.Window().Display().Visible() {
		t.Error("d did not hide the display window")
	}
}

func TestCopyPath(t *testing.T) {
	var copied string
	m, dir := newTestModel(t, map[string]string{"a.txt": "a"}, Options{
		CopyToClipboard: func(s string) error { copied = s; return nil },
	})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	update(t, m, keyRunes("y"))
	if want := filepath.Join(dir, "a.txt"); copied != want {
		t.Errorf("copied %q, want %q", copied, want)
	}
}

func TestBookmarkKey(t *testing.T) {
	other := testutil.TempTree(t, map[string]string{"bookmarked.txt": "b"})
	m, _ := newTestModel(t, map[string]string{"a": "a"}, Options{Bookmarks: map[int]string{1: other}})
	tab := m.Window().SelectedTab()

	m = update(t, m, keyRunes("1"))
	if tab.Dir() != other {
		t.Errorf("dir after bookmark = %q", tab.Dir())
	}
	m = update(t, m, keyRunes("2"))
	if !m.statusIsError {
		t.Error("missing bookmark not reported")
	}
}

func TestViewRendersHeaderAndPane(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"readme.md": "r"}, Options{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	out := m.View()
	for _, want := range []string{"Name", "Date Modified", "readme.md", filepath.Base(dir)} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(out, "Date modified:") {
		t.Error("display window not rendered")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": "a"}, Options{})
	next, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if next.(Model).View() != "" {
		t.Error("view not cleared on quit")
	}
}
