package timedelta

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseError is the error type returned by FromISOFormat. It carries
// the original input string and the reason parsing failed.
type ParseError struct {
	Input string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse duration '%s': %v", e.Input, e.cause)
}

// Cause returns the reason parsing failed.
func (e *ParseError) Cause() error { return e.cause }

// Unwrap returns the reason parsing failed.
func (e *ParseError) Unwrap() error { return e.cause }

// unit identifies one duration measurement unit.
type unit int

const (
	unitYears unit = iota
	unitMonths
	unitWeeks
	unitDays
	unitHours
	unitMinutes
	unitSeconds
	unitMicroseconds
)

var unitNames = [...]string{
	unitYears:        "years",
	unitMonths:       "months",
	unitWeeks:        "weeks",
	unitDays:         "days",
	unitHours:        "hours",
	unitMinutes:      "minutes",
	unitSeconds:      "seconds",
	unitMicroseconds: "microseconds",
}

func (u unit) String() string { return unitNames[u] }

// grammarContext selects which ordered designator sequence is expected
// while scanning designator notation.
type grammarContext int

const (
	ctxDate grammarContext = iota
	ctxTime
	ctxWeek
)

type designator struct {
	letter byte
	unit   unit
}

// Each context accepts its designators in strictly descending unit
// order, each at most once.
var contextDesignators = [...][]designator{
	ctxDate: {{'Y', unitYears}, {'M', unitMonths}, {'D', unitDays}},
	ctxTime: {{'H', unitHours}, {'M', unitMinutes}, {'S', unitSeconds}},
	ctxWeek: {{'W', unitWeeks}},
}

// FromISOFormat parses an ISO 8601 duration string. Both designator
// notation (P3DT1H30M, P4W) and fixed-width notation (P0000-00-05,
// PT01:02:03.5) are accepted; the two cannot be mixed within one
// string. Parsing is all-or-nothing and every failure is returned as a
// *ParseError wrapping the input and a reason.
//
// Year and month measurements have no fixed conversion to days, so any
// non-zero year or month value fails with
// ErrYearsMonthsUnsupported as the reason.
func FromISOFormat(s string) (Timedelta, error) {
	f, err := parseDuration(s)
	if err != nil {
		return Timedelta{}, &ParseError{Input: s, cause: err}
	}
	t, err := New(f)
	if err != nil {
		return Timedelta{}, &ParseError{Input: s, cause: err}
	}
	return t, nil
}

// MustFromISOFormat is like FromISOFormat, but panics if there's an error.
func MustFromISOFormat(s string) Timedelta {
	t, err := FromISOFormat(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseDuration(s string) (Fields, error) {
	if len(s) == 0 || s[0] != 'P' {
		return Fields{}, errors.New("durations must begin with the character 'P'")
	}
	// A trailing uppercase letter means the whole string is designator
	// notation; otherwise each segment is fixed-width. Selecting the
	// grammar for the whole string up front rejects mixed-notation
	// inputs like P1DT00:00:00.
	if last := s[len(s)-1]; last >= 'A' && last <= 'Z' {
		return parseDesignators(s)
	}
	return parseFixedWidth(s)
}

// parseDesignators scans designator notation with an explicit state
// machine: the current grammar context, the index of the next
// unconsumed designator in that context, and a raw value buffer.
func parseDesignators(s string) (Fields, error) {
	var (
		f           Fields
		ctx         = ctxDate
		next        int
		buf         []byte
		consumed    [len(contextDesignators)]bool
		timeEntered bool
	)
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9' || c == '.' || c == ',':
			buf = append(buf, c)
		case c == 'T':
			if ctx == ctxTime {
				return Fields{}, errors.Errorf("unexpected character '%c'", c)
			}
			if len(buf) > 0 {
				return Fields{}, errors.Errorf("missing unit designator after '%s'", buf)
			}
			ctx, next, timeEntered = ctxTime, 0, true
		default:
			if c == 'W' && ctx == ctxDate {
				// The week context is mutually exclusive with the
				// date and time contexts; mixing is caught below.
				ctx, next = ctxWeek, 0
			}
			seq := contextDesignators[ctx]
			pos := -1
			for j := next; j < len(seq); j++ {
				if seq[j].letter == c {
					pos = j
					break
				}
			}
			if pos < 0 {
				return Fields{}, errors.Errorf("unexpected character '%c'", c)
			}
			if len(buf) == 0 {
				return Fields{}, errors.Errorf("missing measurement before character '%c'", c)
			}
			v, err := parsePositiveDecimal(string(buf))
			if err != nil {
				return Fields{}, err
			}
			f.set(seq[pos].unit, v)
			consumed[ctx] = true
			next = pos + 1
			buf = buf[:0]
		}
	}
	switch {
	case consumed[ctxWeek] && (consumed[ctxDate] || consumed[ctxTime]):
		return Fields{}, errors.New("cannot mix weeks with other units")
	case !consumed[ctxDate] && !consumed[ctxWeek] && !timeEntered:
		return Fields{}, errors.New("no measurements found")
	case timeEntered && !consumed[ctxTime]:
		return Fields{}, errors.New("no measurements found in time segment")
	}
	return f, nil
}

// parseFixedWidth splits the string after 'P' into a date segment and
// an optional time segment on the first 'T', and parses each against
// its closed set of fixed-width shapes.
func parseFixedWidth(s string) (Fields, error) {
	var f Fields
	date, clock, hasClock := s[1:], "", false
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		date, clock, hasClock = s[1:i], s[i+1:], true
	}
	if date != "" {
		if err := parseDateSegment(date, &f); err != nil {
			return Fields{}, err
		}
	}
	if hasClock {
		if err := parseTimeSegment(clock, &f); err != nil {
			return Fields{}, err
		}
	}
	return f, nil
}

// parseDateSegment recognizes the YYYY-DDD, YYYY-MM-DD, YYYYDDD and
// YYYYMMDD shapes by length and separator position. Field bounds are
// inclusive.
func parseDateSegment(seg string, f *Fields) error {
	type dateField struct {
		raw   string
		unit  unit
		limit int // inclusive upper bound; 0 means unbounded
	}
	var fields []dateField
	switch {
	case len(seg) == 8 && seg[4] == '-': // YYYY-DDD
		fields = []dateField{
			{seg[0:4], unitYears, 0},
			{seg[5:8], unitDays, 366},
		}
	case len(seg) == 10 && seg[4] == '-' && seg[7] == '-': // YYYY-MM-DD
		fields = []dateField{
			{seg[0:4], unitYears, 0},
			{seg[5:7], unitMonths, 12},
			{seg[8:10], unitDays, 31},
		}
	case len(seg) == 7 && strings.IndexByte(seg, '-') < 0: // YYYYDDD
		fields = []dateField{
			{seg[0:4], unitYears, 0},
			{seg[4:7], unitDays, 366},
		}
	case len(seg) == 8 && strings.IndexByte(seg, '-') < 0: // YYYYMMDD
		fields = []dateField{
			{seg[0:4], unitYears, 0},
			{seg[4:6], unitMonths, 12},
			{seg[6:8], unitDays, 31},
		}
	default:
		return errors.Errorf("unable to parse '%s' into date components", seg)
	}
	for _, fd := range fields {
		v, err := parseDigits(fd.raw)
		if err != nil {
			return err
		}
		if fd.limit > 0 && v > fd.limit {
			return errors.Errorf("%s value of %d exceeds range [0..%d]", fd.unit, v, fd.limit)
		}
		f.set(fd.unit, float64(v))
	}
	return nil
}

// parseTimeSegment recognizes the HH:MM:SS[.ffffff] and HHMMSS[.ffffff]
// shapes. The fractional-seconds marker may be '.' or ',' with one to
// six fraction digits. Field bounds are exclusive: 24:00:00 is not a
// valid clock time.
func parseTimeSegment(seg string, f *Fields) error {
	var hRaw, mRaw, sRaw, rest string
	switch {
	case len(seg) >= 8 && seg[2] == ':' && seg[5] == ':':
		hRaw, mRaw, sRaw, rest = seg[0:2], seg[3:5], seg[6:8], seg[8:]
	case len(seg) >= 6 && strings.IndexByte(seg, ':') < 0:
		hRaw, mRaw, sRaw, rest = seg[0:2], seg[2:4], seg[4:6], seg[6:]
	default:
		return errors.Errorf("unable to parse '%s' into time components", seg)
	}
	var fracRaw string
	if rest != "" {
		if rest[0] != '.' && rest[0] != ',' {
			return errors.Errorf("unable to parse '%s' into time components", seg)
		}
		fracRaw = rest[1:]
		if len(fracRaw) == 0 || len(fracRaw) > 6 || !allDigits(fracRaw) {
			return errors.Errorf("unable to parse '%s' into time components", seg)
		}
	}
	timeFields := []struct {
		raw   string
		unit  unit
		limit int // exclusive upper bound
	}{
		{hRaw, unitHours, 24},
		{mRaw, unitMinutes, 60},
		{sRaw, unitSeconds, 60},
	}
	for _, tf := range timeFields {
		v, err := parseDigits(tf.raw)
		if err != nil {
			return err
		}
		if v >= tf.limit {
			return errors.Errorf("%s value of %d exceeds range [0..%d)", tf.unit, v, tf.limit)
		}
		f.set(tf.unit, float64(v))
	}
	if fracRaw != "" {
		// Right-pad to microseconds: ".5" is 500000µs.
		us, err := parseDigits(fracRaw + strings.Repeat("0", 6-len(fracRaw)))
		if err != nil {
			return err
		}
		f.Microseconds = float64(us)
	}
	return nil
}

// parsePositiveDecimal converts a designator-notation value buffer.
// Values must begin with a digit; either '.' or ',' may be used as the
// decimal separator.
func parsePositiveDecimal(raw string) (float64, error) {
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, errParseDecimal(raw)
	}
	// Convert comma decimal separator to period.
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, errParseDecimal(raw)
	}
	return v, nil
}

// parseDigits parses a fixed-width field, which must be a plain digit
// run.
func parseDigits(raw string) (int, error) {
	if !allDigits(raw) {
		return 0, errParseDecimal(raw)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errParseDecimal(raw)
	}
	return v, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func errParseDecimal(raw string) error {
	return errors.Errorf("unable to parse '%s' as a positive decimal", raw)
}
