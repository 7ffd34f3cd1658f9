package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Open     key.Binding
	Parent   key.Binding
	NewTab   key.Binding
	CloseTab key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Sort     key.Binding
	Reverse  key.Binding
	ViewMode key.Binding
	Display  key.Binding
	Hidden   key.Binding
	Refresh  key.Binding
	Copy     key.Binding
	Bookmark key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Open:     key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open")),
		Parent:   key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("⌫", "parent")),
		NewTab:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "new tab")),
		CloseTab: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "close tab")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev tab")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Reverse:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		ViewMode: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "details/list")),
		Display:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "info pane")),
		Hidden:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden files")),
		Refresh:  key.NewBinding(key.WithKeys("f5", "ctrl+r"), key.WithHelp("F5", "refresh")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Bookmark: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "bookmark")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Parent, k.Sort, k.NewTab, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Open, k.Parent, k.Refresh, k.Bookmark, k.Copy},
		{k.NewTab, k.CloseTab, k.NextTab, k.PrevTab},
		{k.Sort, k.Reverse, k.ViewMode, k.Display, k.Hidden},
		{k.Help, k.Quit},
	}
}
