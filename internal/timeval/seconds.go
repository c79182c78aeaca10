package timeval

import (
	"fmt"
	"math"
)

// Seconds is a nullable, non-negative count of seconds.
type Seconds struct {
	Value float64
	Valid bool
}

// Null is the absent Seconds value.
var Null = Seconds{}

// Of returns a valid Seconds holding v.
func Of(v float64) Seconds {
	return Seconds{Value: v, Valid: true}
}

// FormatHHMMSS renders s as zero-padded HH:MM:SS using floor division for
// every component. Hours are unbounded. Null renders as "-".
func FormatHHMMSS(s Seconds) string {
	if !s.Valid || math.IsNaN(s.Value) {
		return "-"
	}

	total := int64(math.Floor(s.Value))
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// String implements fmt.Stringer.
func (s Seconds) String() string {
	return FormatHHMMSS(s)
}
