package analysis

import (
	"strings"
)

// NormalizeHeader trims surrounding whitespace and upper-cases a column label.
func NormalizeHeader(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// Table is a worksheet keyed by normalized column labels.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable normalizes the header row. When two labels collide after
// normalization the first one wins.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		columns: make([]string, 0, len(header)),
		index:   make(map[string]int, len(header)),
		rows:    rows,
	}

	for i, label := range header {
		name := NormalizeHeader(label)
		if name == "" {
			continue
		}
		if _, dup := t.index[name]; dup {
			continue
		}
		t.index[name] = i
		t.columns = append(t.columns, name)
	}

	return t
}

// Columns returns the normalized labels in header order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether a column is present.
func (t *Table) Has(label string) bool {
	_, ok := t.index[NormalizeHeader(label)]
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Cell returns the raw value of a column in a row. Short rows yield "".
func (t *Table) Cell(row int, label string) string {
	col, ok := t.index[NormalizeHeader(label)]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	r := t.rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Require checks that every label is present. It reports all missing labels
// at once rather than stopping at the first.
func (t *Table) Require(labels ...string) error {
	var missing []string
	for _, label := range labels {
		if !t.Has(label) {
			missing = append(missing, NormalizeHeader(label))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingColumnError{Missing: missing, Found: t.Columns()}
}
