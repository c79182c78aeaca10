package analysis

import (
	"math"
	"sort"

	"github.com/j-veylop/leitos-dashboard-tui/internal/timeval"
)

// Label is a conformance classification.
type Label int

const (
	Fast Label = iota
	Normal
	Slow
)

// Labels lists every label in display order.
var Labels = []Label{Fast, Normal, Slow}

const labelCount = 3

// String returns the dashboard caption of the label.
func (l Label) String() string {
	switch l {
	case Fast:
		return "Muito Rápido"
	case Normal:
		return "Dentro do Padrão"
	case Slow:
		return "Muito Lento"
	default:
		return "Desconhecido"
	}
}

// ThresholdScope selects the reference population of the percentile cutoffs.
type ThresholdScope int

const (
	// ScopeGlobal computes thresholds over every record in the dataset, so
	// filters change what is shown but not the cutoffs.
	ScopeGlobal ThresholdScope = iota
	// ScopeFiltered computes thresholds over the filtered records only.
	ScopeFiltered
)

// String returns the configuration name of the scope.
func (s ThresholdScope) String() string {
	if s == ScopeFiltered {
		return "filtered"
	}
	return "global"
}

// ParseThresholdScope maps a configuration value to a scope. Unknown values
// fall back to global.
func ParseThresholdScope(s string) (ThresholdScope, bool) {
	switch s {
	case "filtered", "local":
		return ScopeFiltered, true
	case "global", "":
		return ScopeGlobal, true
	default:
		return ScopeGlobal, false
	}
}

// Quantile returns the q-quantile of values using linear interpolation
// between order statistics. The input is not modified. Empty input is null.
func Quantile(values []float64, q float64) timeval.Seconds {
	if len(values) == 0 {
		return timeval.Null
	}
	q = math.Max(0, math.Min(1, q))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	// Equal neighbours are returned as-is so ties sit exactly on the cutoff.
	if lower == upper || sorted[lower] == sorted[upper] {
		return timeval.Of(sorted[lower])
	}

	weight := index - float64(lower)
	return timeval.Of(sorted[lower]*(1-weight) + sorted[upper]*weight)
}

// Thresholds are the 10th and 90th percentile cutoffs.
type Thresholds struct {
	Q10   float64
	Q90   float64
	Scope ThresholdScope
}

// ComputeThresholds returns nil when the population has no durations.
func ComputeThresholds(durations []float64, scope ThresholdScope) *Thresholds {
	q10 := Quantile(durations, 0.10)
	q90 := Quantile(durations, 0.90)
	if !q10.Valid || !q90.Valid {
		return nil
	}
	return &Thresholds{Q10: q10.Value, Q90: q90.Value, Scope: scope}
}

// Classify labels a duration. Values equal to either cutoff are Normal. A
// null duration is unclassified and reported with ok false.
func Classify(d timeval.Seconds, th *Thresholds) (Label, bool) {
	if !d.Valid || th == nil {
		return Normal, false
	}
	switch {
	case d.Value < th.Q10:
		return Fast, true
	case d.Value > th.Q90:
		return Slow, true
	default:
		return Normal, true
	}
}

// GroupShares is one row of a conformance matrix.
type GroupShares struct {
	Key    string
	Total  int
	Counts [labelCount]int
	// Percent holds the share of each label within the group, summing to 100.
	Percent [labelCount]float64
}

// Share returns the percentage of a label in the group.
func (g GroupShares) Share(l Label) float64 {
	return g.Percent[l]
}

// Matrix is a group×label proportion table with groups in ascending key order.
type Matrix struct {
	Groups []GroupShares
}

// KeyFunc extracts the grouping key of a record.
type KeyFunc func(Record) string

// ByLocation groups records by location.
func ByLocation(r Record) string {
	return r.Location
}

// ByDate groups records by ISO calendar date, which sorts chronologically.
func ByDate(r Record) string {
	if !r.HasDate {
		return ""
	}
	return r.Date.Format("2006-01-02")
}

// ConformanceBy classifies every record and tallies label shares per group.
// Unclassified records and records with an empty key are skipped.
func ConformanceBy(records []Record, th *Thresholds, key KeyFunc) Matrix {
	if th == nil {
		return Matrix{}
	}

	groups := make(map[string]*GroupShares)
	for _, r := range records {
		label, ok := Classify(r.Total, th)
		if !ok {
			continue
		}
		k := key(r)
		if k == "" {
			continue
		}
		g, exists := groups[k]
		if !exists {
			g = &GroupShares{Key: k}
			groups[k] = g
		}
		g.Counts[label]++
		g.Total++
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := Matrix{Groups: make([]GroupShares, 0, len(keys))}
	for _, k := range keys {
		g := *groups[k]
		for i := range g.Counts {
			g.Percent[i] = float64(g.Counts[i]) / float64(g.Total) * 100
		}
		m.Groups = append(m.Groups, g)
	}
	return m
}

// Bottleneck is the group with the highest share of one label.
type Bottleneck struct {
	Label   Label
	Group   string
	Percent float64
}

// FindBottleneck returns the group with the maximum share of label. Ties go
// to the first group in key order. It returns nil when no group has a
// positive share.
func FindBottleneck(m Matrix, label Label) *Bottleneck {
	var best *Bottleneck
	for _, g := range m.Groups {
		p := g.Percent[label]
		if p <= 0 {
			continue
		}
		if best == nil || p > best.Percent {
			best = &Bottleneck{Label: label, Group: g.Key, Percent: p}
		}
	}
	return best
}

// MeanByLabel averages the total duration of the records in each label.
// Labels without records are null.
func MeanByLabel(records []Record, th *Thresholds) [labelCount]timeval.Seconds {
	var (
		sums   [labelCount]float64
		counts [labelCount]int
		out    [labelCount]timeval.Seconds
	)
	for _, r := range records {
		label, ok := Classify(r.Total, th)
		if !ok {
			continue
		}
		sums[label] += r.Total.Value
		counts[label]++
	}
	for i := range out {
		if counts[i] > 0 {
			out[i] = timeval.Of(sums[i] / float64(counts[i]))
		}
	}
	return out
}
