// Package workbook models a spreadsheet workbook as an ordered collection of
// typed sheets, keeping all pipeline logic independent of the concrete xlsx
// format. Serialization lives behind the Serializer interface.
package workbook

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clubrecon/internal/dateutils"
)

// Format is a number-format hint applied when a cell is serialized.
type Format int

const (
	FormatNone Format = iota
	FormatDate
	FormatCurrency
)

// Cell holds a value (string, time.Time, decimal.Decimal, float64 or nil)
// and its format hint.
type Cell struct {
	Value  interface{}
	Format Format
}

// Row is an ordered slice of cells.
type Row []Cell

// Sheet is a named, ordered collection of rows. Row 0 is the header when
// FrozenHeader is set.
type Sheet struct {
	Name         string
	FrozenHeader bool
	Rows         []Row
}

// StringRow builds a format-free row from string values.
func StringRow(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = Cell{Value: v}
	}
	return row
}

// Append adds a row at the bottom of the sheet.
func (s *Sheet) Append(row Row) {
	s.Rows = append(s.Rows, row)
}

// DeleteRow removes the row at index i.
func (s *Sheet) DeleteRow(i int) {
	if i < 0 || i >= len(s.Rows) {
		return
	}
	s.Rows = append(s.Rows[:i], s.Rows[i+1:]...)
}

// TruncateBelow drops every row after index headerRow.
func (s *Sheet) TruncateBelow(headerRow int) {
	if headerRow+1 < len(s.Rows) {
		s.Rows = s.Rows[:headerRow+1]
	}
}

// CellString renders the cell at (row, col) as a string; out-of-range
// coordinates and nil values render as "".
func (s *Sheet) CellString(row, col int) string {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return cellString(s.Rows[row][col])
}

// CellDate interprets the cell at (row, col) as a date, accepting native
// time values and the textual or serial forms found in loaded workbooks.
func (s *Sheet) CellDate(row, col int) (time.Time, bool) {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return time.Time{}, false
	}
	if t, ok := s.Rows[row][col].Value.(time.Time); ok {
		return dateutils.DateOnly(t), true
	}
	t, err := dateutils.ParseDate(cellString(s.Rows[row][col]))
	if err != nil {
		return time.Time{}, false
	}
	return dateutils.DateOnly(t), true
}

// SetCell writes a cell at (row, col), growing the sheet as needed.
func (s *Sheet) SetCell(row, col int, cell Cell) {
	for len(s.Rows) <= row {
		s.Rows = append(s.Rows, Row{})
	}
	for len(s.Rows[row]) <= col {
		s.Rows[row] = append(s.Rows[row], Cell{})
	}
	s.Rows[row][col] = cell
}

// HeaderIndex returns the column index of name in the given header row, or -1.
func (s *Sheet) HeaderIndex(headerRow int, name string) int {
	if headerRow < 0 || headerRow >= len(s.Rows) {
		return -1
	}
	for i := range s.Rows[headerRow] {
		if strings.TrimSpace(s.CellString(headerRow, i)) == name {
			return i
		}
	}
	return -1
}

// FindHeaderRow scans the first maxRows rows for one containing every
// required header and returns its index plus a header → column map.
// Returns -1 when no row qualifies.
func (s *Sheet) FindHeaderRow(required []string, maxRows int) (int, map[string]int) {
	limit := len(s.Rows)
	if maxRows > 0 && maxRows < limit {
		limit = maxRows
	}
	for r := 0; r < limit; r++ {
		cols := make(map[string]int)
		for c := range s.Rows[r] {
			v := strings.TrimSpace(s.CellString(r, c))
			if v != "" {
				if _, seen := cols[v]; !seen {
					cols[v] = c
				}
			}
		}
		ok := true
		for _, h := range required {
			if _, found := cols[h]; !found {
				ok = false
				break
			}
		}
		if ok {
			return r, cols
		}
	}
	return -1, nil
}

// Workbook is an ordered map of sheet name → sheet.
type Workbook struct {
	sheets []*Sheet
	index  map[string]*Sheet
}

// New creates an empty workbook.
func New() *Workbook {
	return &Workbook{index: make(map[string]*Sheet)}
}

// Sheet returns the named sheet if present.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.index[name]
	return s, ok
}

// Has reports whether the named sheet exists.
func (w *Workbook) Has(name string) bool {
	_, ok := w.index[name]
	return ok
}

// Add creates an empty sheet with the given name and appends it to the
// workbook order. Adding an existing name returns the existing sheet.
func (w *Workbook) Add(name string) *Sheet {
	if s, ok := w.index[name]; ok {
		return s
	}
	s := &Sheet{Name: name}
	w.sheets = append(w.sheets, s)
	w.index[name] = s
	return s
}

// Ensure returns the named sheet, creating it with a frozen header row when
// it does not exist yet.
func (w *Workbook) Ensure(name string, headers []string) *Sheet {
	if s, ok := w.index[name]; ok {
		return s
	}
	s := w.Add(name)
	s.FrozenHeader = true
	s.Append(StringRow(headers...))
	return s
}

// Sheets returns the sheets in workbook order.
func (w *Workbook) Sheets() []*Sheet {
	return w.sheets
}

// Names returns the sheet names in workbook order.
func (w *Workbook) Names() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// Reorder arranges sheets to match the given order. Names not present are
// skipped; sheets not named keep their relative order at the end.
func (w *Workbook) Reorder(order []string) {
	reordered := make([]*Sheet, 0, len(w.sheets))
	taken := make(map[string]bool, len(order))
	for _, name := range order {
		if s, ok := w.index[name]; ok && !taken[name] {
			reordered = append(reordered, s)
			taken[name] = true
		}
	}
	for _, s := range w.sheets {
		if !taken[s.Name] {
			reordered = append(reordered, s)
		}
	}
	w.sheets = reordered
}

var unsafeSheetChars = regexp.MustCompile(`[\\/*?:\[\]]`)

// SafeSheetName sanitizes a club name into a legal sheet name: forbidden
// characters become underscores and the result is capped at 31 characters.
func SafeSheetName(name string) string {
	safe := unsafeSheetChars.ReplaceAllString(name, "_")
	if len(safe) > 31 {
		safe = safe[:31]
	}
	return safe
}

func cellString(c Cell) string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	case decimal.Decimal:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	case int:
		return decimal.NewFromInt(int64(v)).String()
	default:
		return ""
	}
}
