// Package analysis turns a cleaning-event sheet into a turnaround report:
// column validation, per-record conversion, date and location filtering,
// percentile conformance labels and fixed-bin duration distributions.
//
// A Dataset is built once per upload. Analyze is a pure function over a
// Dataset and a set of Filters; it keeps no state between calls.
package analysis

import (
	"github.com/j-veylop/leitos-dashboard-tui/internal/timeval"
)

// Options tune an analysis pass.
type Options struct {
	Scope ThresholdScope
}

// Report is the complete output of one analysis pass.
type Report struct {
	Filters Filters
	// Empty is set when the filters matched no records. Thresholds, matrices
	// and bottlenecks are then absent.
	Empty   bool
	Metrics Metrics
	Daily   []DayCount

	Thresholds *Thresholds
	ByLocation Matrix
	ByDate     Matrix

	SlowestLocation *Bottleneck
	FastestLocation *Bottleneck
	SlowestDate     *Bottleneck
	FastestDate     *Bottleneck

	MeanByLabel [labelCount]timeval.Seconds

	// Distributions holds the total duration first, then each stage column
	// present in the dataset.
	Distributions []Distribution
}

// Mean returns the mean duration of a label.
func (r *Report) Mean(l Label) timeval.Seconds {
	return r.MeanByLabel[l]
}

// Bottlenecks returns the identified bottlenecks in display order, skipping
// the absent ones.
func (r *Report) Bottlenecks() []NamedBottleneck {
	candidates := []NamedBottleneck{
		{Dimension: "location", Bottleneck: r.SlowestLocation},
		{Dimension: "location", Bottleneck: r.FastestLocation},
		{Dimension: "date", Bottleneck: r.SlowestDate},
		{Dimension: "date", Bottleneck: r.FastestDate},
	}
	out := candidates[:0]
	for _, c := range candidates {
		if c.Bottleneck != nil {
			out = append(out, c)
		}
	}
	return out
}

// NamedBottleneck tags a bottleneck with the dimension it was found in.
type NamedBottleneck struct {
	Dimension string
	*Bottleneck
}

// Analyze runs one full pass over the dataset.
func Analyze(ds *Dataset, f Filters, opts Options) *Report {
	report := &Report{Filters: f}
	if ds == nil {
		report.Empty = true
		return report
	}

	filtered := Apply(ds.Records, f)
	report.Metrics = Summarize(filtered)
	report.Daily = DailyCounts(filtered)
	report.Distributions = distributions(ds, filtered)

	if len(filtered) == 0 {
		report.Empty = true
		return report
	}

	population := ds.Records
	if opts.Scope == ScopeFiltered {
		population = filtered
	}
	report.Thresholds = ComputeThresholds(Durations(population), opts.Scope)
	if report.Thresholds == nil {
		return report
	}

	report.ByLocation = ConformanceBy(filtered, report.Thresholds, ByLocation)
	report.ByDate = ConformanceBy(filtered, report.Thresholds, ByDate)

	report.SlowestLocation = FindBottleneck(report.ByLocation, Slow)
	report.FastestLocation = FindBottleneck(report.ByLocation, Fast)
	report.SlowestDate = FindBottleneck(report.ByDate, Slow)
	report.FastestDate = FindBottleneck(report.ByDate, Fast)

	report.MeanByLabel = MeanByLabel(filtered, report.Thresholds)

	return report
}

func distributions(ds *Dataset, records []Record) []Distribution {
	out := make([]Distribution, 0, 1+len(ds.Stages))
	total := NormalizeHeader(ds.Profile.Total)
	out = append(out, Bucket(total, ColumnTitle(total), Durations(records)))
	for i, stage := range ds.Stages {
		out = append(out, Bucket(stage.Label, stage.Title, StageDurations(records, i)))
	}
	return out
}
