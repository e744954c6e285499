// Package timedelta converts between ISO 8601 duration strings and
// duration values normalized to whole days, seconds and microseconds.
//
// Two string notations are supported by FromISOFormat: designator
// notation (P3DT1H30M) and fixed-width date/time notation
// (P0000-00-05, PT01:02:03.5). ISOFormat always emits designator
// notation.
//
// Years and months have no fixed length in days, so a Timedelta cannot
// carry them; New rejects non-zero values for either unit.
package timedelta

import (
	"math"

	"github.com/JohnCGriffin/overflow"
	"github.com/pkg/errors"
)

const (
	microsPerSecond = int64(1000000)
	microsPerMinute = 60 * microsPerSecond
	microsPerHour   = 60 * microsPerMinute
	microsPerDay    = 24 * microsPerHour
	microsPerWeek   = 7 * microsPerDay

	minInt64 = -1 << 63

	// Smallest float64 with a magnitude at or beyond int64 range.
	maxInt64Float = float64(1 << 63)
)

// ErrInt64Overflow is returned when a duration doesn't fit in an int64
// count of microseconds.
var ErrInt64Overflow = errors.New("int64 overflow")

// ErrYearsMonthsUnsupported is returned by New when the years or
// months fields are non-zero.
var ErrYearsMonthsUnsupported = errors.New("year and month fields are not supported")

// Fields holds named unit quantities for New. Quantities may be
// fractional and may be negative; they are summed into a single
// duration.
type Fields struct {
	Years        float64
	Months       float64
	Weeks        float64
	Days         float64
	Hours        float64
	Minutes      float64
	Seconds      float64
	Microseconds float64
}

func (f *Fields) set(u unit, v float64) {
	switch u {
	case unitYears:
		f.Years = v
	case unitMonths:
		f.Months = v
	case unitWeeks:
		f.Weeks = v
	case unitDays:
		f.Days = v
	case unitHours:
		f.Hours = v
	case unitMinutes:
		f.Minutes = v
	case unitSeconds:
		f.Seconds = v
	case unitMicroseconds:
		f.Microseconds = v
	}
}

// Timedelta is a duration normalized to whole days, seconds within the
// day (0..86399) and microseconds within the second (0..999999), with
// the overall sign carried separately rather than on individual
// fields. The zero value is a zero-length duration. Timedelta values
// are comparable with ==.
type Timedelta struct {
	days  int64
	secs  int64
	usecs int64
	neg   bool
}

// New builds a Timedelta from named unit quantities. Whole units
// accumulate exactly in int64 microseconds; fractional parts are
// summed and rounded once, half to even, at microsecond granularity.
// That matches the carry behavior of Python's datetime.timedelta, so
// for example Fields{Days: 0.00000000001} rounds up to 1 microsecond.
//
// New returns ErrYearsMonthsUnsupported if Years or Months is
// non-zero, and ErrInt64Overflow if the total doesn't fit.
func New(f Fields) (Timedelta, error) {
	if f.Years != 0 || f.Months != 0 {
		return Timedelta{}, ErrYearsMonthsUnsupported
	}
	parts := [...]struct {
		quantity float64
		micros   int64
	}{
		{f.Weeks, microsPerWeek},
		{f.Days, microsPerDay},
		{f.Hours, microsPerHour},
		{f.Minutes, microsPerMinute},
		{f.Seconds, microsPerSecond},
		{f.Microseconds, 1},
	}
	var total int64
	var frac float64
	for _, p := range parts {
		if p.quantity == 0 {
			continue
		}
		whole, remainder := math.Modf(p.quantity)
		if math.IsNaN(whole) || whole <= -maxInt64Float || whole >= maxInt64Float {
			return Timedelta{}, ErrInt64Overflow
		}
		scaled, ok := overflow.Mul64(int64(whole), p.micros)
		if !ok {
			return Timedelta{}, ErrInt64Overflow
		}
		if total, ok = overflow.Add64(total, scaled); !ok {
			return Timedelta{}, ErrInt64Overflow
		}
		frac += remainder * float64(p.micros)
	}
	carried := math.RoundToEven(frac)
	if math.IsNaN(carried) || carried <= -maxInt64Float || carried >= maxInt64Float {
		return Timedelta{}, ErrInt64Overflow
	}
	total, ok := overflow.Add64(total, int64(carried))
	if !ok || total == minInt64 {
		return Timedelta{}, ErrInt64Overflow
	}
	return fromMicros(total), nil
}

// fromMicros normalizes a signed microsecond count. The caller
// guarantees total > math.MinInt64 so the magnitude is representable.
func fromMicros(total int64) Timedelta {
	neg := total < 0
	if neg {
		total = -total
	}
	return Timedelta{
		days:  total / microsPerDay,
		secs:  (total % microsPerDay) / microsPerSecond,
		usecs: total % microsPerSecond,
		neg:   neg,
	}
}

// micros returns the signed total microsecond count. It cannot
// overflow: every Timedelta is built from an in-range count.
func (t Timedelta) micros() int64 {
	total := t.days*microsPerDay + t.secs*microsPerSecond + t.usecs
	if t.neg {
		return -total
	}
	return total
}

// Days returns the whole-day count of the duration's magnitude.
func (t Timedelta) Days() int64 { return t.days }

// Seconds returns the seconds-within-day of the duration's magnitude,
// in the range 0..86399.
func (t Timedelta) Seconds() int64 { return t.secs }

// Microseconds returns the microseconds-within-second of the
// duration's magnitude, in the range 0..999999.
func (t Timedelta) Microseconds() int64 { return t.usecs }

// Sign returns -1, 0 or +1.
func (t Timedelta) Sign() int {
	switch {
	case t.IsZero():
		return 0
	case t.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether t is the zero-length duration.
func (t Timedelta) IsZero() bool {
	return t.days == 0 && t.secs == 0 && t.usecs == 0
}

// Neg returns the negation of t. The zero duration is its own
// negation.
func (t Timedelta) Neg() Timedelta {
	if t.IsZero() {
		return t
	}
	t.neg = !t.neg
	return t
}

// Abs returns the magnitude of t.
func (t Timedelta) Abs() Timedelta {
	t.neg = false
	return t
}

// Equal reports whether two durations have the same length and sign.
func (t Timedelta) Equal(o Timedelta) bool { return t == o }

// Add returns t+o, or ErrInt64Overflow if the sum doesn't fit.
func (t Timedelta) Add(o Timedelta) (Timedelta, error) {
	total, ok := overflow.Add64(t.micros(), o.micros())
	if !ok || total == minInt64 {
		return Timedelta{}, ErrInt64Overflow
	}
	return fromMicros(total), nil
}

// Sub returns t-o, or ErrInt64Overflow if the difference doesn't fit.
func (t Timedelta) Sub(o Timedelta) (Timedelta, error) {
	return t.Add(o.Neg())
}
