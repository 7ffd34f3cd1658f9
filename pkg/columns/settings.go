package columns

import (
	"fmt"
	"strings"
	"time"
)

// SizeUnit selects the unit sizes are shown in when sizes are forced.
type SizeUnit int

const (
	UnitAuto SizeUnit = iota
	UnitBytes
	UnitKB
	UnitMB
	UnitGB
	UnitTB
	UnitPB
)

var unitNames = []string{"auto", "bytes", "kb", "mb", "gb", "tb", "pb"}

func (u SizeUnit) String() string {
	if int(u) >= 0 && int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// ParseSizeUnit parses a configuration unit name. The empty string is auto.
func ParseSizeUnit(s string) (SizeUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnitAuto, nil
	}
	for i, n := range unitNames {
		if n == s {
			return SizeUnit(i), nil
		}
	}
	return UnitAuto, fmt.Errorf("unknown size unit %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (u SizeUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *SizeUnit) UnmarshalText(b []byte) error {
	v, err := ParseSizeUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Settings is the snapshot of global folder settings a column computation
// sees. It is copied into every task at submission.
type Settings struct {
	ShowFolderSizes                    bool
	DisableFolderSizesNetworkRemovable bool
	ForceSize                          bool
	SizeUnit                           SizeUnit
	FriendlyDates                      bool
	ShowHidden                         bool

	// Now supplies the reference time for friendly dates. Nil means
	// time.Now.
	Now func() time.Time
}

// DefaultSettings mirrors a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		FriendlyDates:                      true,
		DisableFolderSizesNetworkRemovable: true,
	}
}

// CurrentTime returns the reference time for friendly dates.
func (s Settings) CurrentTime() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
