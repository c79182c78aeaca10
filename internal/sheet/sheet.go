// Package sheet reads a single worksheet from a spreadsheet export into a
// table of raw cell strings.
//
// Cells are read unformatted: dates and times stored by the spreadsheet come
// back as serial numbers, text stays text. Interpreting the cells is left to
// the analysis pipeline.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for file types that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrNoSheet is returned when the requested worksheet does not exist.
	ErrNoSheet = errors.New("worksheet not found")
	// ErrEmptySheet is returned when the worksheet has no header row.
	ErrEmptySheet = errors.New("worksheet is empty")
)

// Format identifies the container format of an upload.
type Format int

const (
	// FormatUnknown is an unrecognised extension.
	FormatUnknown Format = iota
	// FormatXLSX covers the Office Open XML workbook family.
	FormatXLSX
	// FormatCSV is a delimited text export.
	FormatCSV
)

// String returns the string representation of the Format.
func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Sheet is one worksheet: a header row and the raw data rows beneath it.
type Sheet struct {
	Name   string
	Format Format
	Header []string
	Rows   [][]string
}

// DetectFormat picks the format from a file name.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX
	case ".csv", ".txt":
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// Open reads the named worksheet from path. An empty sheetName selects the
// first worksheet of the workbook.
func Open(path, sheetName string) (*Sheet, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	return Read(bytes.NewReader(data), format, sheetName)
}

// Read parses an uploaded byte stream of the given format.
func Read(r io.Reader, format Format, sheetName string) (*Sheet, error) {
	var (
		s   *Sheet
		err error
	)

	switch format {
	case FormatXLSX:
		s, err = readXLSX(r, sheetName)
	case FormatCSV:
		s, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	s.Format = format
	return s, nil
}

func readXLSX(r io.Reader, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	name := sheets[0]
	if sheetName != "" {
		name = ""
		for _, candidate := range sheets {
			if strings.EqualFold(candidate, sheetName) {
				name = candidate
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrNoSheet, sheetName, strings.Join(sheets, ", "))
		}
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", name, err)
	}

	return fromRows(name, rows)
}

func readCSV(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	return fromRows("csv", rows)
}

// detectDelimiter prefers ';' when the header line uses it more than ','.
// Spreadsheet exports in pt-BR locales default to semicolons.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func fromRows(name string, rows [][]string) (*Sheet, error) {
	// Skip leading blank rows; some exports start with an empty line.
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, ErrEmptySheet
	}

	s := &Sheet{
		Name:   name,
		Header: rows[start],
	}

	for _, row := range rows[start+1:] {
		if isBlank(row) {
			continue
		}
		s.Rows = append(s.Rows, row)
	}

	return s, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
