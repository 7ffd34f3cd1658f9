package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Items
	Folder  lipgloss.AdaptiveColor
	Link    lipgloss.AdaptiveColor
	Hidden  lipgloss.AdaptiveColor
	Pending lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base        lipgloss.Style
	Selected    lipgloss.Style
	Header      lipgloss.Style
	ColumnTitle lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	FolderName  lipgloss.Style
	LinkName    lipgloss.Style
	MutedText   lipgloss.Style
	Pane        lipgloss.Style
	PaneTitle   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Folder:  lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Link:    lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Hidden:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#44475A"},
		Pending: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.ColumnTitle = r.NewStyle().Foreground(t.Primary).Bold(true).Underline(true)
	t.ActiveTab = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1)
	t.InactiveTab = r.NewStyle().Foreground(t.Subtext).Background(ColorBgSubtle).Padding(0, 1)
	t.FolderName = r.NewStyle().Foreground(t.Folder).Bold(true)
	t.LinkName = r.NewStyle().Foreground(t.Link).Italic(true)
	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.Pane = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.PaneTitle = r.NewStyle().Foreground(ThemeFg("#FFB86C")).Bold(true)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
