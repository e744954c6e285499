package timedelta

import (
	"strconv"
	"strings"
)

// ISOFormat renders t in ISO 8601 designator notation. The zero
// duration renders as "P0D". Seconds carry up to six fractional
// digits with trailing zeros (and a trailing decimal point) stripped.
//
// Negative durations are rendered with a leading '-' before the 'P'.
// FromISOFormat does not accept that form, so round-tripping is
// defined for non-negative durations only.
func (t Timedelta) ISOFormat() string {
	if t.IsZero() {
		return "P0D"
	}
	var b strings.Builder
	if t.neg {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if t.days != 0 {
		b.WriteString(strconv.FormatInt(t.days, 10))
		b.WriteByte('D')
	}
	hours := t.secs / 3600
	mins := t.secs / 60 % 60
	secs := t.secs % 60
	if hours == 0 && mins == 0 && secs == 0 && t.usecs == 0 {
		return b.String()
	}
	b.WriteByte('T')
	if hours != 0 {
		b.WriteString(strconv.FormatInt(hours, 10))
		b.WriteByte('H')
	}
	if mins != 0 {
		b.WriteString(strconv.FormatInt(mins, 10))
		b.WriteByte('M')
	}
	if secs != 0 || t.usecs != 0 {
		b.WriteString(strconv.FormatInt(secs, 10))
		if t.usecs != 0 {
			frac := strconv.FormatInt(t.usecs, 10)
			frac = strings.Repeat("0", 6-len(frac)) + frac
			b.WriteByte('.')
			b.WriteString(strings.TrimRight(frac, "0"))
		}
		b.WriteByte('S')
	}
	return b.String()
}

// String implements fmt.Stringer as the ISO 8601 rendering of t.
func (t Timedelta) String() string { return t.ISOFormat() }
