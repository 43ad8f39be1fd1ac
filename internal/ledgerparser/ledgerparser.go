// Package ledgerparser extracts contribution and fee lines from a foundation
// ledger export. The export interleaves account-section banners, data rows,
// subtotals and a terminating grand total; only five accounting sections are
// in scope and everything else is skipped.
package ledgerparser

import (
	"regexp"
	"strings"

	"clubrecon/internal/logging"
	"clubrecon/internal/models"
	"clubrecon/internal/parsererror"
	"clubrecon/internal/textutils"
	"clubrecon/internal/workbook"
)

// Required ledger column headers. TransactionNum is optional and only used
// as a journal-reference fallback.
const (
	HeaderPostDate       = "Post Date"
	HeaderDebit          = "Debit"
	HeaderCredit         = "Credit"
	HeaderDescJournalRef = "Invoice Description / Journal Ref"
	HeaderTransactionNum = "Transaction#"
)

// FallbackSheetName is tried when no sheet name matches the activity/ledger
// heuristic.
const FallbackSheetName = "4100-774390"

// targetSections maps a recognized section banner name to the line kind its
// data rows produce. Any other section deactivates extraction.
var targetSections = map[string]models.LineKind{
	"contributions - cash":                   models.LineContribution,
	"contributions - non cash":               models.LineContribution,
	"services - bank/credit card fees":       models.LineFee,
	"services - cc platform processing fees": models.LineFee,
	"transfer out - administrative gift fee": models.LineFee,
}

var bannerRe = regexp.MustCompile(`^Account:\s*\S+\s*\((.*?)\)?$`)

// scanState is the extraction state across rows.
type scanState int

const (
	scanIdle   scanState = iota // outside any target section
	scanActive                  // inside a target section, data rows extracted
	scanDone                    // grand total seen, scan over
)

// rowClass is the per-row input symbol of the scan.
type rowClass int

const (
	classData rowClass = iota
	classBlank
	classBannerTarget // banner naming a target section
	classBannerOther  // banner naming anything else
	classSubtotal
	classGrandTotal
	classHeader
)

// transitions is the scan's state table. scanDone is terminal and handled by
// the caller, so it has no row.
var transitions = map[scanState]map[rowClass]scanState{
	scanIdle: {
		classData:         scanIdle,
		classBlank:        scanIdle,
		classBannerTarget: scanActive,
		classBannerOther:  scanIdle,
		classSubtotal:     scanIdle,
		classGrandTotal:   scanDone,
		classHeader:       scanIdle,
	},
	scanActive: {
		classData:         scanActive,
		classBlank:        scanIdle,
		classBannerTarget: scanActive,
		classBannerOther:  scanIdle,
		classSubtotal:     scanIdle,
		classGrandTotal:   scanDone,
		classHeader:       scanActive,
	},
}

// Result carries the extracted lines plus the per-row counters the run
// report needs.
type Result struct {
	Lines             []models.LedgerLine
	SkippedOutOfRange int
	DroppedRows       int
}

// Parser extracts ledger lines from a workbook sheet.
type Parser struct {
	logger logging.Logger
}

// New creates a ledger parser.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Parser{logger: logger}
}

// PickSheet chooses the ledger sheet. An explicitly configured name wins;
// otherwise the first sheet whose name contains "activity" or "ledger", then
// the fixed fallback, then the first sheet.
func (p *Parser) PickSheet(wb *workbook.Workbook, configured string) (*workbook.Sheet, error) {
	if configured != "" {
		if s, ok := wb.Sheet(configured); ok {
			return s, nil
		}
		return nil, &parsererror.ValidationError{
			Sheet:  configured,
			Reason: "configured ledger sheet not found",
		}
	}
	for _, name := range wb.Names() {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "activity") || strings.Contains(lower, "ledger") {
			s, _ := wb.Sheet(name)
			return s, nil
		}
	}
	if s, ok := wb.Sheet(FallbackSheetName); ok {
		return s, nil
	}
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, &parsererror.ValidationError{Reason: "ledger workbook has no sheets"}
	}
	return sheets[0], nil
}

// Extract scans the sheet and returns the contribution and fee lines from
// the target sections. Lines dated outside the donor window are excluded
// and counted. A missing header row is fatal.
func (p *Parser) Extract(sheet *workbook.Sheet, filePath string, window models.DateWindow) (*Result, error) {
	required := []string{HeaderPostDate, HeaderDebit, HeaderCredit, HeaderDescJournalRef}
	headerIdx, cols := sheet.FindHeaderRow(required, 0)
	if headerIdx < 0 {
		return nil, &parsererror.ValidationError{
			FilePath: filePath,
			Sheet:    sheet.Name,
			Reason:   "header row with required ledger columns not found",
		}
	}

	colDate := cols[HeaderPostDate]
	colDebit := cols[HeaderDebit]
	colCredit := cols[HeaderCredit]
	colDesc := cols[HeaderDescJournalRef]
	colTransNum, hasTransNum := cols[HeaderTransactionNum]

	log := p.logger.WithFields(
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldSheet, sheet.Name),
	)
	log.Debug("located ledger header row", logging.F(logging.FieldRow, headerIdx))

	result := &Result{}
	state := scanIdle
	var kind models.LineKind
	var section string

	for r := range sheet.Rows {
		class, bannerSection := classifyRow(sheet, r, r == headerIdx)

		if state == scanActive && class == classData {
			p.extractLine(sheet, r, log, window, kind, result,
				colDate, colDebit, colCredit, colDesc, colTransNum, hasTransNum)
		}

		if class == classBannerTarget {
			if section != bannerSection {
				log.Debug("entered target section",
					logging.F(logging.FieldSection, bannerSection),
					logging.F(logging.FieldRow, r))
			}
			section = bannerSection
			kind = targetSections[bannerSection]
		}

		state = transitions[state][class]
		if state != scanActive {
			section = ""
		}
		if state == scanDone {
			break
		}
	}

	log.Info("ledger extraction complete",
		logging.F(logging.FieldCount, len(result.Lines)),
		logging.F("skipped_out_of_range", result.SkippedOutOfRange),
		logging.F("dropped_rows", result.DroppedRows))
	return result, nil
}

// classifyRow maps a sheet row to its scan symbol. For banners it also
// returns the lower-cased section name when it is a target section.
func classifyRow(sheet *workbook.Sheet, r int, isHeader bool) (rowClass, string) {
	if isHeader {
		return classHeader, ""
	}

	blank := true
	for c := range sheet.Rows[r] {
		if strings.TrimSpace(sheet.CellString(r, c)) != "" {
			blank = false
			break
		}
	}
	if blank {
		return classBlank, ""
	}

	first := strings.TrimSpace(sheet.CellString(r, 0))
	lower := strings.ToLower(first)

	if strings.HasPrefix(first, "Account:") {
		name := parseBannerSection(first)
		if _, ok := targetSections[name]; ok {
			return classBannerTarget, name
		}
		return classBannerOther, ""
	}
	if strings.Contains(lower, "grand total") {
		return classGrandTotal, ""
	}
	if strings.Contains(lower, "total") {
		return classSubtotal, ""
	}
	return classData, ""
}

// parseBannerSection pulls the section name out of an "Account: <code>
// (<name>)" banner, falling back to everything after the colon.
func parseBannerSection(first string) string {
	if m := bannerRe.FindStringSubmatch(first); m != nil {
		return strings.ToLower(strings.TrimSpace(m[1]))
	}
	_, after, _ := strings.Cut(first, ":")
	return strings.ToLower(strings.TrimSpace(after))
}

func (p *Parser) extractLine(sheet *workbook.Sheet, r int, log logging.Logger,
	window models.DateWindow, kind models.LineKind, result *Result,
	colDate, colDebit, colCredit, colDesc, colTransNum int, hasTransNum bool,
) {
	date, ok := sheet.CellDate(r, colDate)
	if !ok {
		log.Debug("dropping row with unparseable date",
			logging.F(logging.FieldRow, r),
			logging.F(logging.FieldReason, "bad date"))
		result.DroppedRows++
		return
	}
	if !window.Contains(date) {
		result.SkippedOutOfRange++
		return
	}

	desc := sheet.CellString(r, colDesc)
	transNum := ""
	if hasTransNum {
		transNum = sheet.CellString(r, colTransNum)
	}

	rawRef := textutils.ExtractJournalRef(desc, transNum)
	if rawRef == "" {
		log.Warn("dropping row with no resolvable journal reference",
			logging.F(logging.FieldRow, r),
			logging.F("description", desc))
		result.DroppedRows++
		return
	}
	normRef := models.NormalizeRef(rawRef)
	if normRef == "" {
		result.DroppedRows++
		return
	}

	amountCol := colCredit
	if kind == models.LineFee {
		amountCol = colDebit
	}
	amount := models.ParseAmountPositive(sheet.CellString(r, amountCol))
	if amount.IsZero() {
		return
	}

	result.Lines = append(result.Lines, models.LedgerLine{
		TransactionLine: models.TransactionLine{
			Kind:           kind,
			Amount:         amount,
			RawDescription: desc,
			Date:           date,
		},
		RawRef:        rawRef,
		NormalizedRef: normRef,
	})
}
