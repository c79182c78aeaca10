package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/j-veylop/leitos-dashboard-tui/internal/timeval"
)

// AllLocations is the canonical sentinel that disables the location filter.
const AllLocations = "All"

// IsAllLocations reports whether a location value means "no filter". The
// Portuguese "Todos" is accepted as well.
func IsAllLocations(loc string) bool {
	switch strings.ToLower(strings.TrimSpace(loc)) {
	case "", "all", "todos":
		return true
	default:
		return false
	}
}

// Filters are the user-facing controls of one analysis pass. Zero Start or
// End leaves that side of the date range open.
type Filters struct {
	Start    time.Time
	End      time.Time
	Location string
}

// Apply keeps the records inside the inclusive date range and matching the
// location. Records without a date never pass.
func Apply(records []Record, f Filters) []Record {
	start := f.Start
	if !start.IsZero() {
		start = timeval.DateOf(start)
	}
	end := f.End
	if !end.IsZero() {
		end = timeval.DateOf(end)
	}
	allLocations := IsAllLocations(f.Location)
	location := strings.TrimSpace(f.Location)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.HasDate {
			continue
		}
		if !start.IsZero() && r.Date.Before(start) {
			continue
		}
		if !end.IsZero() && r.Date.After(end) {
			continue
		}
		if !allLocations && r.Location != location {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DayCount is one point of the per-date series.
type DayCount struct {
	Date    time.Time
	Count   int
	Percent float64
}

// DailyCounts counts records per calendar date in ascending date order.
// Percent is the share of the filtered total, unrounded.
func DailyCounts(records []Record) []DayCount {
	counts := make(map[time.Time]int)
	total := 0
	for _, r := range records {
		if !r.HasDate {
			continue
		}
		counts[r.Date]++
		total++
	}

	out := make([]DayCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DayCount{
			Date:    d,
			Count:   c,
			Percent: float64(c) / float64(total) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// RoundPercent rounds to two decimals for display.
func RoundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}

// Metrics are the scalar summaries of a record set.
type Metrics struct {
	Occurrences int
	Total       timeval.Seconds
	Mean        timeval.Seconds
	// Measured counts the records with a non-null total duration.
	Measured int
}

// Summarize computes the null-skipping sum and mean of the total duration.
// The sum of an empty set is zero; its mean is null.
func Summarize(records []Record) Metrics {
	m := Metrics{Occurrences: len(records)}
	sum := 0.0
	for _, r := range records {
		if r.Total.Valid {
			sum += r.Total.Value
			m.Measured++
		}
	}
	m.Total = timeval.Of(sum)
	if m.Measured > 0 {
		m.Mean = timeval.Of(sum / float64(m.Measured))
	}
	return m
}

// Durations extracts the non-null total durations.
func Durations(records []Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Total.Valid {
			out = append(out, r.Total.Value)
		}
	}
	return out
}

// StageDurations extracts the non-null values of stage column i.
func StageDurations(records []Record, i int) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if i < len(r.Stages) && r.Stages[i].Valid {
			out = append(out, r.Stages[i].Value)
		}
	}
	return out
}
