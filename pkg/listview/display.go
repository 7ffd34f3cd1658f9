package listview

// DisplayWindow is the information pane that shows details of the current
// selection, one line per index.
type DisplayWindow struct {
	lines     []string
	visible   bool
	mutations int
}

// NewDisplayWindow returns an empty, visible display window.
func NewDisplayWindow() *DisplayWindow {
	return &DisplayWindow{visible: true}
}

// SetDisplayLine sets the text of line index, growing the buffer as needed.
func (d *DisplayWindow) SetDisplayLine(index int, text string) {
	if index < 0 {
		return
	}
	for len(d.lines) <= index {
		d.lines = append(d.lines, "")
	}
	d.lines[index] = text
	d.mutations++
}

// Line returns the text of line index.
func (d *DisplayWindow) Line(index int) string {
	if index < 0 || index >= len(d.lines) {
		return ""
	}
	return d.lines[index]
}

// Lines returns a copy of every line.
func (d *DisplayWindow) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Clear empties the buffer.
func (d *DisplayWindow) Clear() {
	d.lines = nil
	d.mutations++
}

// SetVisible shows or hides the pane.
func (d *DisplayWindow) SetVisible(v bool) {
	d.visible = v
}

// Visible reports whether the pane is shown.
func (d *DisplayWindow) Visible() bool {
	return d.visible
}

// Mutations counts changes to the buffer.
func (d *DisplayWindow) Mutations() int {
	return d.mutations
}
