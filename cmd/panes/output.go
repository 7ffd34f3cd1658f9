package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// useColor reports whether w is a terminal that should get styled output.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type styles struct {
	header lipgloss.Style
	folder lipgloss.Style
	plain  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !useColor(w) {
		return styles{}
	}
	return styles{
		header: lipgloss.NewStyle().Bold(true).Underline(true),
		folder: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}).Bold(true),
	}
}

// table renders rows with aligned columns.
type table struct {
	titles []string
	right  []bool
	rows   [][]string
	dirs   []bool
}

func (t *table) add(cells []string, dir bool) {
	t.rows = append(t.rows, cells)
	t.dirs = append(t.dirs, dir)
}

func (t *table) write(w io.Writer, st styles) error {
	widths := make([]int, len(t.titles))
	for i, title := range t.titles {
		widths[i] = runewidth.StringWidth(title)
	}
	for _, row := range t.rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	line := func(cells []string, style func(i int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(c))
			if t.right[i] {
				c = pad + c
			} else if i < len(cells)-1 {
				c += pad
			}
			parts[i] = style(i).Render(c)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ") + "\n"
	}

	var b strings.Builder
	b.WriteString(line(t.titles, func(int) lipgloss.Style { return st.header }))
	for r, row := range t.rows {
		dir := t.dirs[r]
		b.WriteString(line(row, func(i int) lipgloss.Style {
			if i == 0 && dir {
				return st.folder
			}
			return st.plain
		}))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
