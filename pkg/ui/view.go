package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/panes/pkg/browser"
	"github.com/vanderheijden86/panes/pkg/columns"
	"github.com/vanderheijden86/panes/pkg/listview"
)

// Border plus the display lines.
const (
	displayLines      = 5
	displayPaneHeight = displayLines + 2
)

const minNameWidth = 16

func columnWidth(t columns.Type) int {
	switch t {
	case columns.Size, columns.RealSize, columns.TotalSize, columns.FreeSpace:
		return 12
	case columns.DateModified, columns.DateCreated, columns.DateAccessed:
		return 18
	case columns.TypeName, columns.Owner, columns.Group, columns.ShortcutTo:
		return 16
	case columns.Attributes:
		return 10
	case columns.HardLinks, columns.ImageWidth, columns.ImageHeight:
		return 7
	case columns.Extension:
		return 9
	}
	return 12
}

// layout returns the cell width of every header column. Name takes what
// is left over.
func (m Model) layout(tab *browser.Tab) []int {
	cols := tab.View().Columns()
	widths := make([]int, len(cols))
	used, name := 0, -1
	for i, c := range cols {
		if columns.Type(c.ID) == columns.Name {
			name = i
			continue
		}
		widths[i] = columnWidth(columns.Type(c.ID))
		used += widths[i] + 1
	}
	if name >= 0 {
		widths[name] = max(m.width-used-2, minNameWidth)
	}
	return widths
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	tab := m.win.SelectedTab()
	if tab == nil {
		return m.theme.MutedText.Render("no tabs open")
	}

	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteByte('\n')
	b.WriteString(m.renderPathLine(tab))
	b.WriteByte('\n')
	if tab.View().ViewMode() == listview.ModeDetails {
		b.WriteString(m.renderDetails(tab))
	} else {
		b.WriteString(m.renderList(tab))
	}
	if m.win.Display().Visible() {
		b.WriteString(m.renderDisplayWindow())
		b.WriteByte('\n')
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTabBar() string {
	selected := m.win.SelectedTab()
	parts := make([]string, 0, len(m.win.Tabs()))
	for _, t := range m.win.Tabs() {
		title := truncate(t.Title(), 24)
		if t == selected {
			parts = append(parts, m.theme.ActiveTab.Render(title))
		} else {
			parts = append(parts, m.theme.InactiveTab.Render(title))
		}
	}
	return truncate(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
}

func (m Model) renderPathLine(tab *browser.Tab) string {
	col, asc := tab.SortColumn()
	arrow := "↑"
	if !asc {
		arrow = "↓"
	}
	info := " " + col.Title() + " " + arrow
	if n := tab.PendingColumns(); n > 0 {
		info += "  " + m.theme.Renderer.NewStyle().Foreground(m.theme.Pending).Render("…")
	}
	path := truncate(tab.Dir(), max(m.width-lipgloss.Width(info)-2, 1))
	return m.theme.Header.Render(path) + m.theme.MutedText.Render(info)
}

func (m Model) nameStyle(tab *browser.Tab, row int) lipgloss.Style {
	idx, _ := tab.RowItem(row)
	info, ok := tab.Item(idx)
	switch {
	case !ok:
		return m.theme.Base
	case info.IsDir():
		return m.theme.FolderName
	case info.LinkTarget != "":
		return m.theme.LinkName
	case info.Hidden():
		return m.theme.MutedText
	}
	return m.theme.Base
}

func (m Model) visibleRows(tab *browser.Tab) (first, last int) {
	first = m.offsets[tab.ID()]
	last = min(first+m.listHeight(), tab.View().ItemCount()) - 1
	return first, last
}

func (m Model) renderDetails(tab *browser.Tab) string {
	view := tab.View()
	cols := view.Columns()
	widths := m.layout(tab)

	var b strings.Builder
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = m.theme.ColumnTitle.Render(fit(c.Title, widths[i], c.Right))
	}
	b.WriteString("  " + strings.Join(titles, " "))
	b.WriteByte('\n')

	selected, hasSel := tab.SelectedRow()
	first, last := m.visibleRows(tab)
	lines := 0
	for row := first; row <= last; row++ {
		cells := make([]string, len(cols))
		for i, c := range cols {
			text := fit(view.ItemText(row, i), widths[i], c.Right)
			if columns.Type(c.ID) == columns.Name {
				text = m.nameStyle(tab, row).Render(text)
			}
			cells[i] = text
		}
		line := strings.Join(cells, " ")
		if hasSel && row == selected {
			line = m.theme.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteByte('\n')
		lines++
	}
	m.padLines(&b, lines)
	return b.String()
}

func (m Model) renderList(tab *browser.Tab) string {
	view := tab.View()
	name, _ := view.FindColumn(int(columns.Name))
	selected, hasSel := tab.SelectedRow()

	var b strings.Builder
	b.WriteByte('\n')
	first, last := m.visibleRows(tab)
	lines := 0
	for row := first; row <= last; row++ {
		text := m.nameStyle(tab, row).Render(truncate(view.ItemText(row, name), m.width-2))
		if hasSel && row == selected {
			text = m.theme.Selected.Render("▸ " + text)
		} else {
			text = "  " + text
		}
		b.WriteString(text)
		b.WriteByte('\n')
		lines++
	}
	m.padLines(&b, lines)
	return b.String()
}

func (m Model) padLines(b *strings.Builder, used int) {
	for i := used; i < m.listHeight(); i++ {
		b.WriteByte('\n')
	}
}

func (m Model) renderDisplayWindow() string {
	d := m.win.Display()
	inner := max(m.width-4, 10)
	lines := make([]string, displayLines)
	for i := range lines {
		text := truncate(d.Line(i), inner)
		if i == browser.NameLine {
			text = m.theme.PaneTitle.Render(text)
		}
		lines[i] = text
	}
	return m.theme.Pane.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		return RenderStatus(m.statusMsg, m.statusIsError, m.width)
	}
	return m.help.View(m.keys)
}
