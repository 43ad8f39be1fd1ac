// Package donorparser reads the donor acknowledgement export and produces
// the designation lookup plus the valid transaction date window.
package donorparser

import (
	"strings"

	"clubrecon/internal/dateutils"
	"clubrecon/internal/logging"
	"clubrecon/internal/models"
	"clubrecon/internal/parsererror"
	"clubrecon/internal/workbook"
)

// The donor export layout is fixed: one named sheet, a known number of
// leading rows before data, and three columns read by position.
const (
	SheetName = "College or Unit Acknowledgement"
	SkipRows  = 7

	colJournalRef  = 1 // column B
	colDate        = 5 // column F
	colDesignation = 8 // column I
)

// Resolution is the outcome of reading the donor export: designation text by
// normalized journal reference, and the date window bounding eligible ledger
// transactions.
type Resolution struct {
	Designations map[string]string
	Window       models.DateWindow
}

// Designation returns the designation text for a normalized reference, or ""
// when the donor export never mentioned it.
func (r *Resolution) Designation(normalizedRef string) string {
	return r.Designations[normalizedRef]
}

// Parser reads donor acknowledgement workbooks.
type Parser struct {
	logger logging.Logger
}

// New creates a donor parser.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Parser{logger: logger}
}

// Resolve builds the designation map and date window from the donor
// workbook. A missing acknowledgement sheet is fatal. Duplicate references
// keep their first designation. Rows missing any of the three values are
// skipped; unparseable dates are logged and excluded from the window only.
func (p *Parser) Resolve(wb *workbook.Workbook, filePath string) (*Resolution, error) {
	sheet, ok := wb.Sheet(SheetName)
	if !ok {
		return nil, &parsererror.ValidationError{
			FilePath: filePath,
			Sheet:    SheetName,
			Reason:   "donor acknowledgement sheet not found",
		}
	}

	log := p.logger.WithFields(
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldSheet, SheetName),
	)

	res := &Resolution{Designations: make(map[string]string)}
	window := models.DateWindow{}
	for r := SkipRows; r < len(sheet.Rows); r++ {
		rawRef := strings.TrimSpace(sheet.CellString(r, colJournalRef))
		designation := strings.TrimSpace(sheet.CellString(r, colDesignation))
		rawDate := strings.TrimSpace(sheet.CellString(r, colDate))
		if rawRef == "" || designation == "" || rawDate == "" {
			continue
		}

		normRef := models.NormalizeRef(rawRef)
		if normRef != "" {
			if _, seen := res.Designations[normRef]; !seen {
				res.Designations[normRef] = designation
			}
		}

		date, ok := sheet.CellDate(r, colDate)
		if !ok {
			log.Warn("could not parse donor date",
				logging.F(logging.FieldRow, r),
				logging.F(logging.FieldJournalRef, rawRef))
			continue
		}
		date = dateutils.DateOnly(date)
		if !window.Valid {
			window = models.DateWindow{Min: date, Max: date, Valid: true}
			continue
		}
		if date.Before(window.Min) {
			window.Min = date
		}
		if date.After(window.Max) {
			window.Max = date
		}
	}
	res.Window = window

	if !window.Valid {
		log.Warn("no valid donor dates found, date range filtering disabled")
	}
	log.Info("donor resolution complete",
		logging.F(logging.FieldCount, len(res.Designations)))
	return res, nil
}
