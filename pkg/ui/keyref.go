package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

var keyGroups = []string{"Moving", "Opening", "Tabs", "View", "General"}

// KeyReference returns the key bindings as a markdown document, one table
// per group of the full help.
func KeyReference() string {
	var b strings.Builder
	b.WriteString("# panes keys\n")
	for i, group := range defaultKeyMap().FullHelp() {
		title := "More"
		if i < len(keyGroups) {
			title = keyGroups[i]
		}
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n| --- | --- |\n", title)
		for _, k := range group {
			h := k.Help()
			keys := strings.Join(k.Keys(), ", ")
			fmt.Fprintf(&b, "| `%s` | %s |\n", keys, h.Desc)
		}
	}
	return b.String()
}

// RenderKeyReference renders KeyReference for a terminal of the given
// width. Plain output uses glamour's notty style.
func RenderKeyReference(width int, styled bool) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if styled {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(KeyReference())
}
