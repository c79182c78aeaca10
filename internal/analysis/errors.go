package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/j-veylop/leitos-dashboard-tui/internal/sheet"
)

// Load errors. Any of these aborts the pass; no partial dataset is produced.
var (
	ErrMissingColumn     = errors.New("required column missing")
	ErrEmptySheet        = sheet.ErrEmptySheet
	ErrUnsupportedFormat = sheet.ErrUnsupportedFormat
	ErrNoSheet           = sheet.ErrNoSheet
)

// MissingColumnError names the absent required columns together with every
// column that was actually found, so the operator can spot a renamed header.
type MissingColumnError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s (found: %s)",
		ErrMissingColumn,
		strings.Join(e.Missing, ", "),
		strings.Join(e.Found, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}
