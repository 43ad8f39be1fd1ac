package workbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Serializer isolates the concrete spreadsheet format from the pipeline.
type Serializer interface {
	Load(r io.Reader) (*Workbook, error)
	Save(wb *Workbook, w io.Writer) error
}

// XLSX serializes workbooks to and from xlsx via excelize.
type XLSX struct{}

const (
	dateNumFmt     = "yyyy-mm-dd"
	currencyNumFmt = `"$"#,##0.00`
)

// Load reads an xlsx stream into an in-memory workbook. Cell values come
// back as formatted strings; type interpretation happens at the point of use.
func (XLSX) Load(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := New()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		sheet := wb.Add(name)
		for _, raw := range rows {
			sheet.Append(StringRow(raw...))
		}
	}
	return wb, nil
}

// LoadFile reads an xlsx workbook from disk.
func LoadFile(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	wb, err := XLSX{}.Load(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return wb, nil
}

// SaveFile writes the workbook to path as xlsx, creating parent directories.
func SaveFile(wb *Workbook, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := (XLSX{}).Save(wb, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Save writes the workbook to w as xlsx, applying date/currency number
// formats, bold frozen headers and normalized column widths.
func (XLSX) Save(wb *Workbook, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	dateFmt := dateNumFmt
	currencyFmt := currencyNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return fmt.Errorf("creating currency style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, sheet := range wb.Sheets() {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, dateStyle, currencyStyle, headerStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet *Sheet, dateStyle, currencyStyle, headerStyle int) error {
	for r, row := range sheet.Rows {
		for c, cell := range row {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			if err := setCell(f, sheet.Name, axis, cell); err != nil {
				return err
			}
			switch cell.Format {
			case FormatDate:
				if err := f.SetCellStyle(sheet.Name, axis, axis, dateStyle); err != nil {
					return err
				}
			case FormatCurrency:
				if err := f.SetCellStyle(sheet.Name, axis, axis, currencyStyle); err != nil {
					return err
				}
			}
		}
	}

	if sheet.FrozenHeader && len(sheet.Rows) > 0 {
		last, err := excelize.CoordinatesToCellName(maxCols(sheet), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return err
		}
		if err := f.SetPanes(sheet.Name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	return setColumnWidths(f, sheet)
}

func setCell(f *excelize.File, sheet, axis string, cell Cell) error {
	switch v := cell.Value.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return f.SetCellValue(sheet, axis, v.InexactFloat64())
	default:
		return f.SetCellValue(sheet, axis, cell.Value)
	}
}

// setColumnWidths sizes every column to its longest content, with a minimum
// of 10 and formatted-value estimates for date and currency cells.
func setColumnWidths(f *excelize.File, sheet *Sheet) error {
	cols := maxCols(sheet)
	for c := 0; c < cols; c++ {
		maxLen := 0
		for r := range sheet.Rows {
			if c >= len(sheet.Rows[r]) {
				continue
			}
			cell := sheet.Rows[r][c]
			length := len(sheet.CellString(r, c))
			switch cell.Format {
			case FormatDate:
				length = 12
			case FormatCurrency:
				if length < 15 {
					length = 15
				}
			}
			if _, isTime := cell.Value.(time.Time); isTime && length < 12 {
				length = 12
			}
			if length > maxLen {
				maxLen = length
			}
		}
		width := float64(maxLen + 2)
		if width < 10 {
			width = 10
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func maxCols(sheet *Sheet) int {
	cols := 1
	for _, row := range sheet.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}
