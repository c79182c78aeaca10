package analysis

import (
	"math"
)

// Bin is one fixed duration range, right-closed: (previous Upper, Upper].
type Bin struct {
	Upper   float64
	Short   string
	Caption string
}

// Bins are the seven reporting ranges in order. The first bin also holds
// zero-length durations.
var Bins = []Bin{
	{Upper: 600, Short: "≤10min", Caption: "EM ATÉ 10 MINUTOS"},
	{Upper: 900, Short: "≤15min", Caption: "EM ATÉ 15 MINUTOS"},
	{Upper: 1200, Short: "≤20min", Caption: "EM ATÉ 20 MINUTOS"},
	{Upper: 1800, Short: "≤30min", Caption: "EM ATÉ 30 MINUTOS"},
	{Upper: 2700, Short: "≤45min", Caption: "EM ATÉ 45 MINUTOS"},
	{Upper: 3600, Short: "≤1h", Caption: "EM ATÉ 1 HORA"},
	{Upper: math.Inf(1), Short: ">1h", Caption: "MAIS DE 1 HORA"},
}

// BinIndex returns the bin a non-negative duration belongs to.
func BinIndex(seconds float64) int {
	for i, b := range Bins {
		if seconds <= b.Upper {
			return i
		}
	}
	return len(Bins) - 1
}

// BinCount is the tally of one bin.
type BinCount struct {
	Bin     Bin
	Count   int
	Percent float64
}

// Distribution is the seven-bin report of one duration column.
type Distribution struct {
	Column string
	Title  string
	Total  int
	Bins   []BinCount
}

// Bucket distributes durations over every bin, in bin order, including
// empty ones. Percentages are of the non-null values and are zero when there
// are none.
func Bucket(column, title string, durations []float64) Distribution {
	d := Distribution{
		Column: column,
		Title:  title,
		Bins:   make([]BinCount, len(Bins)),
	}
	for i, b := range Bins {
		d.Bins[i].Bin = b
	}

	for _, v := range durations {
		if math.IsNaN(v) || v < 0 {
			continue
		}
		d.Bins[BinIndex(v)].Count++
		d.Total++
	}

	if d.Total > 0 {
		for i := range d.Bins {
			d.Bins[i].Percent = float64(d.Bins[i].Count) / float64(d.Total) * 100
		}
	}
	return d
}
