package analysis

import (
	"strings"
	"time"

	"github.com/j-veylop/leitos-dashboard-tui/internal/timeval"
)

// Default column labels of the cleaning export.
const (
	ColumnFinished  = "FINALIZADO"
	ColumnTotal     = "TEMPO_TOTAL"
	ColumnLocation  = "LUGAR"
	ColumnWaiting   = "AGUARDANDO_LIMPEZA_51"
	ColumnCleaning  = "EM_LIMPEZA_53"
	ColumnAttendant = "CAMAREIRA_54"
)

// StageColumn is an optional per-stage duration column. An empty Title is
// derived from the label.
type StageColumn struct {
	Label string `yaml:"label"`
	Title string `yaml:"title"`
}

// Profile names the columns a dataset is built from.
type Profile struct {
	Finished string        `yaml:"finished"`
	Total    string        `yaml:"total"`
	Location string        `yaml:"location"`
	Stages   []StageColumn `yaml:"stages"`
}

// DefaultProfile returns the column layout of the hospital export.
func DefaultProfile() Profile {
	return Profile{
		Finished: ColumnFinished,
		Total:    ColumnTotal,
		Location: ColumnLocation,
		Stages: []StageColumn{
			{Label: ColumnWaiting},
			{Label: ColumnCleaning},
			{Label: ColumnAttendant},
		},
	}
}

// Required returns the labels that must be present for a load to succeed.
func (p Profile) Required() []string {
	return []string{p.Finished, p.Total, p.Location}
}

// ColumnTitle derives a display title from a column label.
func ColumnTitle(label string) string {
	return strings.ReplaceAll(NormalizeHeader(label), "_", " ")
}

// Record is one cleaning event.
type Record struct {
	FinishedAt time.Time
	// HasDate is false when the finish timestamp could not be parsed.
	HasDate  bool
	Date     time.Time
	Location string
	Total    timeval.Seconds
	// Stages is aligned with Dataset.Stages.
	Stages []timeval.Seconds
}

// Dataset is the validated, converted content of one uploaded sheet. It is
// immutable once built and is re-scanned in full on every analysis pass.
type Dataset struct {
	Profile Profile
	Columns []string
	// Stages lists the optional stage columns actually present.
	Stages  []StageColumn
	Records []Record
	// Unparsable counts non-empty cells that converted to null, per column.
	Unparsable map[string]int
	// Locations are the distinct locations in order of first appearance.
	Locations []string
	MinDate   time.Time
	MaxDate   time.Time
	HasDates  bool
}

// NewDataset validates the table against the profile and converts every row.
// Only a missing required column is an error; bad cells become nulls.
func NewDataset(t *Table, p Profile) (*Dataset, error) {
	if err := t.Require(p.Required()...); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Profile:    p,
		Columns:    t.Columns(),
		Unparsable: make(map[string]int),
		Records:    make([]Record, 0, t.Len()),
	}

	for _, stage := range p.Stages {
		if !t.Has(stage.Label) {
			continue
		}
		title := stage.Title
		if title == "" {
			title = ColumnTitle(stage.Label)
		}
		ds.Stages = append(ds.Stages, StageColumn{
			Label: NormalizeHeader(stage.Label),
			Title: title,
		})
	}

	seen := make(map[string]bool)

	for i := 0; i < t.Len(); i++ {
		rec := Record{
			Location: strings.TrimSpace(t.Cell(i, p.Location)),
			Total:    ds.convert(t.Cell(i, p.Total), NormalizeHeader(p.Total)),
		}

		raw := t.Cell(i, p.Finished)
		if ts, ok := timeval.ParseTimestamp(raw); ok {
			rec.FinishedAt = ts
			rec.HasDate = true
			rec.Date = timeval.DateOf(ts)
			ds.observeDate(rec.Date)
		} else if strings.TrimSpace(raw) != "" {
			ds.Unparsable[NormalizeHeader(p.Finished)]++
		}

		if len(ds.Stages) > 0 {
			rec.Stages = make([]timeval.Seconds, len(ds.Stages))
			for j, stage := range ds.Stages {
				rec.Stages[j] = ds.convert(t.Cell(i, stage.Label), stage.Label)
			}
		}

		if rec.Location != "" && !seen[rec.Location] {
			seen[rec.Location] = true
			ds.Locations = append(ds.Locations, rec.Location)
		}

		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func (ds *Dataset) convert(raw, column string) timeval.Seconds {
	s := timeval.ConvertRaw(raw)
	if !s.Valid && strings.TrimSpace(raw) != "" {
		ds.Unparsable[column]++
	}
	return s
}

func (ds *Dataset) observeDate(d time.Time) {
	if !ds.HasDates {
		ds.MinDate, ds.MaxDate, ds.HasDates = d, d, true
		return
	}
	if d.Before(ds.MinDate) {
		ds.MinDate = d
	}
	if d.After(ds.MaxDate) {
		ds.MaxDate = d
	}
}

// UnparsableTotal sums the unparsable-cell counters.
func (ds *Dataset) UnparsableTotal() int {
	n := 0
	for _, c := range ds.Unparsable {
		n += c
	}
	return n
}
