package columns

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var sizeNames = []string{"bytes", "KB", "MB", "GB", "TB", "PB"}

// FormatSize renders a byte count with 1024-based units.
//
// Without force the largest unit with a value of at least one is used.
// Precision is zero digits for bytes, otherwise two below 10, one below 100
// and zero above. Digits past the precision are dropped, never rounded up,
// so 1023.9 KB never shows as "1,024 KB". The integer part is grouped with
// thousands separators.
func FormatSize(bytes uint64, force bool, unit SizeUnit) string {
	idx := 0
	if force && unit != UnitAuto {
		idx = int(unit) - int(UnitBytes)
	} else {
		for idx < len(sizeNames)-1 && bytes>>(10*(idx+1)) >= 1 {
			idx++
		}
	}

	shift := uint(10 * idx)
	whole := bytes >> shift
	rem := bytes & (1<<shift - 1)

	precision := 0
	if idx > 0 {
		switch {
		case whole < 10:
			precision = 2
		case whole < 100:
			precision = 1
		}
	}

	var b strings.Builder
	b.WriteString(groupDigits(whole))
	if precision > 0 {
		scale := uint64(math.Pow10(precision))
		// rem < 2^50 for PB, so rem*100 cannot overflow.
		frac := (rem * scale) >> shift
		digits := strconv.FormatUint(frac, 10)
		b.WriteByte('.')
		b.WriteString(strings.Repeat("0", precision-len(digits)))
		b.WriteString(digits)
	}
	b.WriteByte(' ')
	b.WriteString(sizeNames[idx])
	return b.String()
}

func groupDigits(n uint64) string {
	if n <= math.MaxInt64 {
		return humanize.Comma(int64(n))
	}
	return humanize.BigComma(new(big.Int).SetUint64(n))
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// FormatTime renders a timestamp as "date, time" in local time. With
// friendly set, dates on the current or the previous calendar day read
// "Today" or "Yesterday". The zero time renders as the empty string.
func FormatTime(t time.Time, friendly bool, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	local := t.Local()
	date := local.Format(dateLayout)
	if friendly {
		n := now.Local()
		ty, tm, td := local.Date()
		switch {
		case sameDay(ty, tm, td, n):
			date = "Today"
		case sameDay(ty, tm, td, n.AddDate(0, 0, -1)):
			date = "Yesterday"
		}
	}
	return date + ", " + local.Format(timeLayout)
}

func sameDay(y int, m time.Month, d int, other time.Time) bool {
	oy, om, od := other.Date()
	return y == oy && m == om && d == od
}
