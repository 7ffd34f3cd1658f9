package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/listview"
	"github.com/vanderheijden86/panes/pkg/notify"
	"github.com/vanderheijden86/panes/pkg/testutil"
)

func propertyTree(t *testing.T) string {
	files := make(map[string]string)
	for i := 0; i < 8; i++ {
		files[fmt.Sprintf("file%d.%s", i, []string{"txt", "go", "md"}[i%3])] = strings.Repeat("x", (i*37)%11+1)
	}
	files["folder/"] = ""
	return testutil.TempTree(t, files)
}

// collect waits until n notifications have been posted and returns them.
func collect(mb *notify.Mailbox, n int) ([]tea.Msg, bool) {
	deadline := time.Now().Add(5 * time.Second)
	for mb.Len() < n {
		if time.Now().After(deadline) {
			return nil, false
		}
		time.Sleep(2 * time.Millisecond)
	}
	return mb.Drain(), true
}

var sortable = []columns.Type{columns.Name, columns.Size, columns.DateModified, columns.Extension, columns.TypeName}

func drawTasks(rt *rapid.T, tab *Tab) int {
	queued := 0
	k := rapid.IntRange(1, 12).Draw(rt, "tasks")
	cols := tab.Columns()
	for i := 0; i < k; i++ {
		row := rapid.IntRange(0, tab.View().ItemCount()-1).Draw(rt, "row")
		col := cols[rapid.IntRange(0, len(cols)-1).Draw(rt, "col")]
		idx, _ := tab.RowItem(row)
		if _, ok := tab.QueueColumnTask(idx, col); ok {
			queued++
		}
	}
	return queued
}

func TestPropertyStaleResultsNeverApply(t *testing.T) {
	dir := propertyTree(t)
	w := newTestWindow(t, nil)

	rapid.Check(t, func(rt *rapid.T) {
		tab := w.NewTab()
		if err := tab.Navigate(dir); err != nil {
			rt.Fatal(err)
		}
		view := tab.View()
		n := drawTasks(rt, tab)

		switch rapid.IntRange(0, 2).Draw(rt, "action") {
		case 0:
			if err := tab.Refresh(); err != nil {
				rt.Fatal(err)
			}
		case 1:
			tab.SetViewMode(listview.ModeList)
		case 2:
			if err := w.CloseTab(tab.ID()); err != nil {
				rt.Fatal(err)
			}
		}
		before := view.Mutations()

		msgs, ok := collect(w.Mailbox(), n)
		if !ok {
			rt.Fatalf("only %d of %d notifications posted", w.Mailbox().Len(), n)
		}
		for _, msg := range msgs {
			if w.Dispatch(msg) {
				rt.Fatalf("stale notification %v applied", msg)
			}
		}
		if view.Mutations() != before {
			rt.Fatalf("list view mutated by stale results")
		}
		if w.Tab(tab.ID()) != nil {
			if err := w.CloseTab(tab.ID()); err != nil {
				rt.Fatal(err)
			}
		}
	})
}

func TestPropertyEachResultAppliesOnce(t *testing.T) {
	dir := propertyTree(t)
	w := newTestWindow(t, nil)

	rapid.Check(t, func(rt *rapid.T) {
		tab := w.NewTab()
		defer w.CloseTab(tab.ID())
		if err := tab.Navigate(dir); err != nil {
			rt.Fatal(err)
		}
		n := drawTasks(rt, tab)
		msgs, ok := collect(w.Mailbox(), n)
		if !ok {
			rt.Fatalf("notifications missing")
		}

		applied := 0
		for _, msg := range msgs {
			repeats := rapid.IntRange(1, 3).Draw(rt, "repeats")
			for r := 0; r < repeats; r++ {
				before := tab.View().Mutations()
				if w.Dispatch(msg) {
					if r > 0 {
						rt.Fatalf("%v applied on repeat %d", msg, r)
					}
					applied++
				} else if tab.View().Mutations() != before {
					rt.Fatalf("no-op dispatch mutated the list view")
				}
			}
		}
		if applied != n {
			rt.Fatalf("applied %d of %d results", applied, n)
		}
		if tab.PendingColumns() != 0 {
			rt.Fatalf("%d entries left pending", tab.PendingColumns())
		}
	})
}

func TestPropertyResortKeepsValuesOnTheirItems(t *testing.T) {
	dir := propertyTree(t)
	w := newTestWindow(t, func(c *WindowConfig) {
		c.Columns = []columns.Type{columns.Name, columns.Size, columns.Extension}
	})

	rapid.Check(t, func(rt *rapid.T) {
		tab := w.NewTab()
		defer w.CloseTab(tab.ID())
		if err := tab.Navigate(dir); err != nil {
			rt.Fatal(err)
		}
		n := drawTasks(rt, tab)

		delivered := 0
		steps := rapid.IntRange(0, 5).Draw(rt, "sorts")
		for i := 0; i < steps; i++ {
			col := sortable[rapid.IntRange(0, len(sortable)-1).Draw(rt, "sortCol")]
			tab.SortBy(col, rapid.Bool().Draw(rt, "asc"))
			if msg, ok := w.Mailbox().TryNext(); ok {
				w.Dispatch(msg)
				delivered++
			}
		}
		msgs, ok := collect(w.Mailbox(), n-delivered)
		if !ok {
			rt.Fatalf("notifications missing")
		}
		for _, msg := range msgs {
			w.Dispatch(msg)
		}

		s := w.Settings()
		for row := 0; row < tab.View().ItemCount(); row++ {
			idx, _ := tab.RowItem(row)
			info, _ := tab.Item(idx)
			for c, col := range tab.Columns() {
				got := tab.View().ItemText(row, c)
				if col != columns.Name && got == "" {
					continue
				}
				if want := columns.Text(context.Background(), col, info, s); got != want {
					rt.Fatalf("row %d (%s) %s = %q, want %q", row, filepath.Base(info.Path), col, got, want)
				}
			}
		}
	})
}
