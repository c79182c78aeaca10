// Package timeval converts the heterogeneous time values found in cleaning
// spreadsheets into a canonical number of seconds.
//
// A cell may hold a native duration, a clock string ("H:MM:SS") or a number
// interpreted as a fraction of a 24-hour day (the spreadsheet serial
// convention). Conversion never fails loudly: anything unrepresentable yields
// a null Seconds value and is dropped from downstream aggregates.
package timeval

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay is the multiplier applied to fraction-of-day values.
const SecondsPerDay = 24 * 60 * 60

// serialSteps is the number of steps per second a spreadsheet time value
// resolves to. Day serials are rounded to this grid.
const serialSteps = 1000

// maxSeconds is the exclusive upper bound of a converted value, keeping it
// within an int64 count of seconds.
const maxSeconds float64 = math.MaxInt64

// Kind identifies which representation a Value carries.
type Kind int

const (
	// KindInvalid marks a value that could not be recognised.
	KindInvalid Kind = iota
	// KindDuration is a native duration.
	KindDuration
	// KindClock is a colon-delimited "H:MM:SS" string.
	KindClock
	// KindDaySerial is a number expressed as a fraction of a day.
	KindDaySerial
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindDuration:
		return "duration"
	case KindClock:
		return "clock"
	case KindDaySerial:
		return "day-serial"
	default:
		return "invalid"
	}
}

// Value is a tagged union over the three accepted time representations.
type Value struct {
	kind     Kind
	duration time.Duration
	text     string
	number   float64
}

// FromDuration wraps a native duration.
func FromDuration(d time.Duration) Value {
	return Value{kind: KindDuration, duration: d}
}

// FromClock wraps a colon-delimited clock string.
func FromClock(s string) Value {
	return Value{kind: KindClock, text: s}
}

// FromDaySerial wraps a fraction-of-day number.
func FromDaySerial(f float64) Value {
	return Value{kind: KindDaySerial, number: f}
}

// Invalid returns a value that always converts to null.
func Invalid() Value {
	return Value{kind: KindInvalid}
}

// Kind reports the representation carried by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Classify applies the unit-detection rule used for every spreadsheet cell:
// a decimal number is a fraction of a day, a string with colons is a clock
// value, a Go duration literal ("45m", "1h2m3s") is a native duration and
// everything else is invalid.
func Classify(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Invalid()
	}

	if strings.Contains(s, ":") {
		return FromClock(s)
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FromDaySerial(f)
	}

	if d, err := time.ParseDuration(s); err == nil {
		return FromDuration(d)
	}

	return Invalid()
}

// Convert maps a Value to canonical seconds. Parse failures, negative,
// NaN, infinite and out-of-range results all yield Null. Day serials are
// rounded to the nearest millisecond.
func Convert(v Value) Seconds {
	var secs float64

	switch v.kind {
	case KindDuration:
		secs = v.duration.Seconds()
	case KindClock:
		parsed, ok := parseClock(v.text)
		if !ok {
			return Null
		}
		secs = parsed
	case KindDaySerial:
		secs = math.Round(v.number*SecondsPerDay*serialSteps) / serialSteps
	default:
		return Null
	}

	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 || secs >= maxSeconds {
		return Null
	}
	return Of(secs)
}

// ConvertRaw classifies and converts a raw cell in one step.
func ConvertRaw(raw string) Seconds {
	return Convert(Classify(raw))
}

// parseClock accepts exactly three colon-separated integer parts.
func parseClock(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}

	var n [3]float64
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, false
		}
		n[i] = float64(v)
	}

	return n[0]*3600 + n[1]*60 + n[2], true
}
