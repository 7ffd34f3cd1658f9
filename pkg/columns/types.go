// Package columns is the catalogue of list view columns and the pure
// functions that render a column's text for one item.
//
// Everything here runs on worker goroutines against immutable snapshots
// (ItemInfo and Settings). Nothing holds UI state.
package columns

import (
	"fmt"
	"strings"
)

// Type identifies a column. The numeric value is stored in list view
// headers, so it must stay stable.
type Type int

const (
	Name Type = iota + 1
	TypeName
	Size
	DateModified
	DateCreated
	DateAccessed
	Attributes
	RealSize
	Owner
	Group
	HardLinks
	Extension
	ShortcutTo
	ImageWidth
	ImageHeight
	TotalSize
	FreeSpace
)

type typeDef struct {
	name  string
	title string
	right bool
}

var typeDefs = map[Type]typeDef{
	Name:         {"name", "Name", false},
	TypeName:     {"type", "Type", false},
	Size:         {"size", "Size", true},
	DateModified: {"date_modified", "Date Modified", false},
	DateCreated:  {"date_created", "Date Created", false},
	DateAccessed: {"date_accessed", "Date Accessed", false},
	Attributes:   {"attributes", "Attributes", false},
	RealSize:     {"real_size", "Real Size", true},
	Owner:        {"owner", "Owner", false},
	Group:        {"group", "Group", false},
	HardLinks:    {"hard_links", "Hard Links", true},
	Extension:    {"extension", "Extension", false},
	ShortcutTo:   {"shortcut_to", "Shortcut To", false},
	ImageWidth:   {"image_width", "Image Width", true},
	ImageHeight:  {"image_height", "Image Height", true},
	TotalSize:    {"total_size", "Total Size", true},
	FreeSpace:    {"free_space", "Free Space", true},
}

// All returns every column type in catalogue order.
func All() []Type {
	out := make([]Type, 0, len(typeDefs))
	for t := Name; t <= FreeSpace; t++ {
		out = append(out, t)
	}
	return out
}

// DefaultSet is the details view layout for a new tab.
func DefaultSet() []Type {
	return []Type{Name, TypeName, Size, DateModified}
}

// Valid reports whether t is a known column.
func (t Type) Valid() bool {
	_, ok := typeDefs[t]
	return ok
}

// String returns the configuration name, e.g. "date_modified".
func (t Type) String() string {
	if d, ok := typeDefs[t]; ok {
		return d.name
	}
	return fmt.Sprintf("column(%d)", int(t))
}

// Title returns the header text.
func (t Type) Title() string {
	if d, ok := typeDefs[t]; ok {
		return d.title
	}
	return t.String()
}

// RightAligned reports whether the column holds numbers.
func (t Type) RightAligned() bool {
	return typeDefs[t].right
}

// ParseType accepts a configuration name or a header title, ignoring case,
// spaces, dashes and underscores.
func ParseType(s string) (Type, error) {
	want := normalize(s)
	for t, d := range typeDefs {
		if normalize(d.name) == want || normalize(d.title) == want {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", s)
}

// ParseTypes parses a comma separated list of columns.
func ParseTypes(list string) ([]Type, error) {
	var out []Type
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := ParseType(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
