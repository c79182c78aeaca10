package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/leitos-dashboard-tui/internal/timeval"
)

var defaultHeader = []string{" finalizado", "Tempo_Total ", "lugar"}

func newDataset(t *testing.T, rows [][]string) *Dataset {
	t.Helper()
	ds, err := NewDataset(NewTable(defaultHeader, rows), DefaultProfile())
	require.NoError(t, err)
	return ds
}

func day(d int) time.Time {
	return time.Date(2024, 12, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "TEMPO_TOTAL", NormalizeHeader("  tempo_total\t"))
	assert.Equal(t, "", NormalizeHeader("   "))
}

func TestTable_Require(t *testing.T) {
	table := NewTable([]string{"finalizado", " LUGAR ", "OUTRA"}, nil)

	assert.NoError(t, table.Require("FINALIZADO", "lugar"))

	err := table.Require(DefaultProfile().Required()...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"TEMPO_TOTAL"}, mce.Missing)
	assert.Equal(t, []string{"FINALIZADO", "LUGAR", "OUTRA"}, mce.Found)
	assert.Contains(t, err.Error(), "OUTRA")
}

func TestTable_Cell(t *testing.T) {
	table := NewTable([]string{"A", "B", "a"}, [][]string{{"1"}, {"2", "3"}})

	assert.Equal(t, []string{"A", "B"}, table.Columns(), "duplicate label after normalization is dropped")
	assert.Equal(t, "1", table.Cell(0, "a"))
	assert.Equal(t, "", table.Cell(0, "B"), "short row")
	assert.Equal(t, "3", table.Cell(1, "b"))
	assert.Equal(t, "", table.Cell(5, "A"))
	assert.Equal(t, "", table.Cell(0, "missing"))
}

func TestNewDataset_MissingColumnAborts(t *testing.T) {
	ds, err := NewDataset(NewTable([]string{"FINALIZADO", "LUGAR"}, [][]string{{"45627", "Andar 1"}}), DefaultProfile())
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestNewDataset(t *testing.T) {
	header := append([]string{}, defaultHeader...)
	header = append(header, "em_limpeza_53")
	rows := [][]string{
		{"2024-12-02 10:00:00", "00:30:00", "Andar 3", "0.0104166"},
		{"45627.25", "0.5", "Andar 1", "bad"},
		{"ontem", "1:2", "Andar 3", ""},
		{"", "", "", ""},
	}

	ds, err := NewDataset(NewTable(header, rows), DefaultProfile())
	require.NoError(t, err)

	require.Len(t, ds.Records, 4)
	require.Len(t, ds.Stages, 1)
	assert.Equal(t, "EM_LIMPEZA_53", ds.Stages[0].Label)
	assert.Equal(t, "EM LIMPEZA 53", ds.Stages[0].Title)

	assert.Equal(t, []string{"Andar 3", "Andar 1"}, ds.Locations)
	assert.True(t, ds.HasDates)
	assert.Equal(t, day(1), ds.MinDate)
	assert.Equal(t, day(2), ds.MaxDate)

	assert.Equal(t, timeval.Of(1800), ds.Records[0].Total)
	assert.Equal(t, timeval.Of(43200), ds.Records[1].Total)
	assert.False(t, ds.Records[2].Total.Valid)
	assert.False(t, ds.Records[2].HasDate)
	assert.False(t, ds.Records[1].Stages[0].Valid)

	assert.Equal(t, map[string]int{
		"TEMPO_TOTAL":   1,
		"FINALIZADO":    1,
		"EM_LIMPEZA_53": 1,
	}, ds.Unparsable)
	assert.Equal(t, 3, ds.UnparsableTotal())
}

func TestNewDataset_TimeOnlySerialIsUndated(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"0.5", "00:10:00", "Andar 1"},
		{"45627", "00:10:00", "Andar 1"},
		{"45628.75", "00:10:00", "Andar 2"},
	})

	assert.False(t, ds.Records[0].HasDate)
	assert.True(t, ds.Records[1].HasDate)
	assert.Equal(t, day(1), ds.MinDate)
	assert.Equal(t, day(2), ds.MaxDate)
}

func TestApply_DateRange(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-11-30", "00:10:00", "Andar 1"},
		{"2024-12-01", "00:10:00", "Andar 1"},
		{"2024-12-02 23:59:59", "00:10:00", "Andar 1"},
		{"2024-12-05", "00:10:00", "Andar 1"},
		{"sem data", "00:10:00", "Andar 1"},
	})

	got := Apply(ds.Records, Filters{Start: day(1), End: day(3), Location: AllLocations})
	require.Len(t, got, 2)
	assert.Equal(t, day(1), got[0].Date)
	assert.Equal(t, day(2), got[1].Date)
}

func TestApply_OpenRangeExcludesUndated(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:10:00", "Andar 1"},
		{"", "00:10:00", "Andar 1"},
	})

	assert.Len(t, Apply(ds.Records, Filters{}), 1)
}

func TestApply_Location(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:10:00", "Andar 1"},
		{"2024-12-01", "00:10:00", "Andar 3"},
		{"2024-12-02", "00:10:00", "Andar 3"},
	})

	got := Apply(ds.Records, Filters{Location: "Andar 3"})
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "Andar 3", r.Location)
	}

	for _, sentinel := range []string{"All", "Todos", "todos", ""} {
		assert.Len(t, Apply(ds.Records, Filters{Location: sentinel}), 3, sentinel)
	}
}

func TestDailyCounts_PercentSumsTo100(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:10:00", "A"},
		{"2024-12-01", "00:10:00", "A"},
		{"2024-12-03", "00:10:00", "A"},
		{"2024-12-02", "00:10:00", "A"},
		{"2024-12-02", "00:10:00", "A"},
		{"2024-12-02", "00:10:00", "A"},
	})

	got := DailyCounts(ds.Records)
	require.Len(t, got, 3)
	assert.Equal(t, day(1), got[0].Date)
	assert.Equal(t, day(2), got[1].Date)
	assert.Equal(t, 3, got[1].Count)
	assert.Equal(t, day(3), got[2].Date)

	sum := 0.0
	for _, d := range got {
		sum += RoundPercent(d.Percent)
	}
	assert.InDelta(t, 100, sum, 0.01)
	assert.Equal(t, 16.67, RoundPercent(got[2].Percent))
}

func TestSummarize(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:10:00", "A"},
		{"2024-12-01", "00:20:00", "A"},
		{"2024-12-01", "x", "A"},
	})

	m := Summarize(ds.Records)
	assert.Equal(t, 3, m.Occurrences)
	assert.Equal(t, 2, m.Measured)
	assert.Equal(t, timeval.Of(1800), m.Total)
	assert.Equal(t, timeval.Of(900), m.Mean)

	empty := Summarize(nil)
	assert.Equal(t, timeval.Of(0), empty.Total)
	assert.False(t, empty.Mean.Valid)
}

func TestQuantile(t *testing.T) {
	values := []float64{4000, 300, 1000, 650}

	assert.InDelta(t, 405, Quantile(values, 0.1).Value, 1e-9)
	assert.InDelta(t, 3100, Quantile(values, 0.9).Value, 1e-9)
	assert.Equal(t, timeval.Of(300), Quantile(values, 0))
	assert.Equal(t, timeval.Of(4000), Quantile(values, 1))
	assert.Equal(t, []float64{4000, 300, 1000, 650}, values, "input is not reordered")

	assert.False(t, Quantile(nil, 0.5).Valid)
	assert.Equal(t, timeval.Of(7), Quantile([]float64{7}, 0.9))
}

func TestClassify_StrictInequality(t *testing.T) {
	th := &Thresholds{Q10: 100, Q90: 200}

	tests := []struct {
		in   float64
		want Label
	}{
		{99.9, Fast},
		{100, Normal},
		{150, Normal},
		{200, Normal},
		{200.1, Slow},
	}
	for _, tt := range tests {
		got, ok := Classify(timeval.Of(tt.in), th)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}

	_, ok := Classify(timeval.Null, th)
	assert.False(t, ok, "null durations are unclassified")
	_, ok = Classify(timeval.Of(1), nil)
	assert.False(t, ok)
}

func TestClassify_Partition(t *testing.T) {
	values := []float64{0, 10, 10, 55, 90, 120, 300, 300, 301, 7200, 15}
	th := ComputeThresholds(values, ScopeGlobal)
	require.NotNil(t, th)

	counts := map[Label]int{}
	for _, v := range values {
		label, ok := Classify(timeval.Of(v), th)
		require.True(t, ok)
		counts[label]++
	}
	assert.Equal(t, len(values), counts[Fast]+counts[Normal]+counts[Slow])
}

func TestClassify_AllEqualIsNormal(t *testing.T) {
	values := []float64{500, 500, 500}
	th := ComputeThresholds(values, ScopeGlobal)
	require.NotNil(t, th)
	assert.Equal(t, 500.0, th.Q10)
	assert.Equal(t, 500.0, th.Q90)

	for _, v := range values {
		label, _ := Classify(timeval.Of(v), th)
		assert.Equal(t, Normal, label)
	}
}

func TestConformanceBy_AndBottleneck(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:05:00", "Andar 2"},
		{"2024-12-01", "00:20:00", "Andar 2"},
		{"2024-12-02", "02:00:00", "Andar 1"},
		{"2024-12-02", "00:20:00", "Andar 1"},
		{"2024-12-02", "00:20:00", "Andar 1"},
		{"2024-12-02", "", "Andar 9"},
	})
	th := &Thresholds{Q10: 600, Q90: 3600}

	m := ConformanceBy(ds.Records, th, ByLocation)
	require.Len(t, m.Groups, 2, "unclassified-only group is skipped")
	assert.Equal(t, "Andar 1", m.Groups[0].Key)
	assert.Equal(t, "Andar 2", m.Groups[1].Key)

	for _, g := range m.Groups {
		sum := 0.0
		for _, l := range Labels {
			sum += g.Share(l)
		}
		assert.InDelta(t, 100, sum, 1e-9)
	}

	slow := FindBottleneck(m, Slow)
	require.NotNil(t, slow)
	assert.Equal(t, "Andar 1", slow.Group)
	assert.InDelta(t, 33.333, slow.Percent, 0.001)

	fast := FindBottleneck(m, Fast)
	require.NotNil(t, fast)
	assert.Equal(t, "Andar 2", fast.Group)
	assert.Equal(t, 50.0, fast.Percent)

	byDate := ConformanceBy(ds.Records, th, ByDate)
	require.Len(t, byDate.Groups, 2)
	assert.Equal(t, "2024-12-01", byDate.Groups[0].Key)
}

func TestFindBottleneck_TieGoesToFirstKey(t *testing.T) {
	m := Matrix{Groups: []GroupShares{
		{Key: "A", Percent: [labelCount]float64{0, 50, 50}},
		{Key: "B", Percent: [labelCount]float64{0, 50, 50}},
	}}

	got := FindBottleneck(m, Slow)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Group)

	assert.Nil(t, FindBottleneck(m, Fast), "no positive share")
	assert.Nil(t, FindBottleneck(Matrix{}, Slow))
}

func TestMeanByLabel(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:05:00", "A"},
		{"2024-12-01", "00:07:00", "A"},
		{"2024-12-01", "00:20:00", "A"},
	})
	th := &Thresholds{Q10: 600, Q90: 3600}

	got := MeanByLabel(ds.Records, th)
	assert.Equal(t, timeval.Of(360), got[Fast])
	assert.Equal(t, timeval.Of(1200), got[Normal])
	assert.False(t, got[Slow].Valid)
}

func TestBucket(t *testing.T) {
	d := Bucket("TEMPO_TOTAL", "TEMPO TOTAL", []float64{300, 650, 1000, 4000})

	require.Len(t, d.Bins, len(Bins))
	want := []int{1, 1, 1, 0, 0, 0, 1}
	for i, b := range d.Bins {
		assert.Equal(t, want[i], b.Count, b.Bin.Short)
	}
	assert.Equal(t, 25.0, d.Bins[0].Percent)
	assert.Equal(t, 0.0, d.Bins[3].Percent)
	assert.Equal(t, 4, d.Total)
}

func TestBinIndex_RightClosed(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "≤10min"},
		{600, "≤10min"},
		{600.5, "≤15min"},
		{900, "≤15min"},
		{3600, "≤1h"},
		{3600.01, ">1h"},
		{math.MaxFloat64, ">1h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bins[BinIndex(tt.in)].Short, "%v", tt.in)
	}
}

func TestBucket_PercentSumsTo100(t *testing.T) {
	values := []float64{1, 601, 901, 1201, 1801, 2701, 3601, 5, 7, 10000, 899}
	d := Bucket("X", "X", values)

	sum := 0.0
	count := 0
	for _, b := range d.Bins {
		sum += b.Percent
		count += b.Count
	}
	assert.InDelta(t, 100, sum, 0.01)
	assert.Equal(t, len(values), count)

	empty := Bucket("X", "X", nil)
	require.Len(t, empty.Bins, 7)
	for _, b := range empty.Bins {
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Percent)
	}
}

func TestAnalyze_GlobalThresholds(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:01:00", "Andar 1"},
		{"2024-12-01", "00:10:00", "Andar 1"},
		{"2024-12-02", "00:20:00", "Andar 1"},
		{"2024-12-02", "00:30:00", "Andar 3"},
		{"2024-12-03", "00:40:00", "Andar 3"},
		{"2024-12-03", "03:00:00", "Andar 3"},
	})

	global := Analyze(ds, Filters{Location: "Andar 3"}, Options{})
	require.False(t, global.Empty)
	require.NotNil(t, global.Thresholds)
	assert.Equal(t, ScopeGlobal, global.Thresholds.Scope)
	assert.Equal(t, 3, global.Metrics.Occurrences)

	all := Analyze(ds, Filters{Location: AllLocations}, Options{})
	assert.Equal(t, all.Thresholds.Q10, global.Thresholds.Q10, "location filter must not move global cutoffs")
	assert.Equal(t, all.Thresholds.Q90, global.Thresholds.Q90)

	local := Analyze(ds, Filters{Location: "Andar 3"}, Options{Scope: ScopeFiltered})
	require.NotNil(t, local.Thresholds)
	assert.Equal(t, ScopeFiltered, local.Thresholds.Scope)
	assert.NotEqual(t, global.Thresholds.Q10, local.Thresholds.Q10)

	require.NotNil(t, all.SlowestLocation)
	assert.Equal(t, "Andar 3", all.SlowestLocation.Group)
	require.NotNil(t, all.FastestLocation)
	assert.Equal(t, "Andar 1", all.FastestLocation.Group)
	assert.Len(t, all.Bottlenecks(), 4)

	require.Len(t, all.Distributions, 1)
	assert.Equal(t, "TEMPO TOTAL", all.Distributions[0].Title)
}

func TestAnalyze_EmptyResult(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "00:10:00", "Andar 1"},
	})

	report := Analyze(ds, Filters{Location: "Andar 7"}, Options{})
	assert.True(t, report.Empty)
	assert.Nil(t, report.Thresholds)
	assert.Nil(t, report.SlowestLocation)
	assert.Empty(t, report.Bottlenecks())
	assert.Zero(t, report.Metrics.Occurrences)
	assert.False(t, report.Metrics.Mean.Valid)
	require.Len(t, report.Distributions, 1)
	assert.Len(t, report.Distributions[0].Bins, 7)

	assert.True(t, Analyze(nil, Filters{}, Options{}).Empty)
}

func TestAnalyze_NoDurations(t *testing.T) {
	ds := newDataset(t, [][]string{
		{"2024-12-01", "", "Andar 1"},
	})

	report := Analyze(ds, Filters{}, Options{})
	assert.False(t, report.Empty)
	assert.Nil(t, report.Thresholds)
	assert.Empty(t, report.ByLocation.Groups)
}

func TestParseThresholdScope(t *testing.T) {
	s, ok := ParseThresholdScope("filtered")
	assert.True(t, ok)
	assert.Equal(t, ScopeFiltered, s)

	s, ok = ParseThresholdScope("")
	assert.True(t, ok)
	assert.Equal(t, ScopeGlobal, s)

	_, ok = ParseThresholdScope("weekly")
	assert.False(t, ok)
}
