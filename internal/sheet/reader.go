// Package sheet turns an .xlsx workbook into the cleaned text grid the
// spreadsheet extractor sends to the model.
package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name looked for before falling back to the first one.
const DefaultSheet = "Monthly JE"

// ErrNoSheets is returned for a workbook without any sheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// Table is one decoded sheet.
type Table struct {
	Sheet string
	Rows  [][]string
}

// Reader decodes workbooks with excelize.
type Reader struct {
	opts excelize.Options
}

// Option configures a Reader.
type Option func(*Reader)

// WithRawValues reads stored cell values instead of the displayed,
// number-formatted ones.
func WithRawValues() Option {
	return func(r *Reader) { r.opts.RawCellValue = true }
}

// NewReader returns a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// SheetNames lists the workbook's sheets in workbook order.
func (r *Reader) SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path, r.opts)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// ReadTable reads the preferred sheet, or the first sheet when the workbook
// has none by that name, and returns its cleaned grid.
func (r *Reader) ReadTable(path, preferred string) (*Table, error) {
	f, err := excelize.OpenFile(path, r.opts)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	name, err := PickSheet(f.GetSheetList(), preferred)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	rows, err := f.GetRows(name, r.opts)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", name, path, err)
	}

	return &Table{Sheet: name, Rows: Clean(rows)}, nil
}

// PickSheet returns preferred if present in names, otherwise names[0].
func PickSheet(names []string, preferred string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoSheets
	}
	if preferred != "" {
		for _, n := range names {
			if n == preferred {
				return n, nil
			}
		}
	}
	return names[0], nil
}

// Clean pads rows to the widest row, collapses whitespace inside every cell
// and drops rows left entirely empty. The result is never nil.
func Clean(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, width)
		empty := true
		for i, v := range row {
			cells[i] = strings.Join(strings.Fields(v), " ")
			if cells[i] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, cells)
		}
	}
	return out
}
