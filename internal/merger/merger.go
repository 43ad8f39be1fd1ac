// Package merger applies aggregated transactions to the summary workbook:
// idempotent row insertion into club and review sheets, the Summary
// Individual rebuild, the fiscal-year Summary recalculation and the final
// sheet ordering.
package merger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clubrecon/internal/dateutils"
	"clubrecon/internal/logging"
	"clubrecon/internal/models"
	"clubrecon/internal/parsererror"
	"clubrecon/internal/workbook"
)

// Structural sheet names of the summary workbook.
const (
	SummarySheetName           = "Summary"
	SummaryIndividualSheetName = "Summary Individual"
	NeedsReviewSheetName       = "Needs Review"
)

// Summary sheet column headers.
const (
	SummaryColClub      = "Sports Clubs"
	SummaryColRollover  = "Rollover"
	SummaryColContrib   = "Sum of Contribution"
	SummaryColCharges   = "Sum of Chgs/offset"
	SummaryColExpenses  = "Sum of Expenses"
	SummaryColRemaining = "Sum of Remaining"
)

// Club and review sheet column headers.
const (
	ColDate        = "Date"
	ColType        = "Type"
	ColJournalRef  = "Journal Ref"
	ColDescription = "Donor/Description"
	ColContrib     = "Contribution Amount"
	ColCharges     = "Charges/Offset"
	ColNet         = "Net Amount"
	ColDonationUse = "Donation Use"
	ColDesignation = "Original Designation"
)

// Rows below important headers in the Summary sheet are searched within this
// bound.
const summaryHeaderSearchRows = 20

// ClubSheetHeaders is the header row of per-club sheets and Summary
// Individual.
var ClubSheetHeaders = []string{
	ColDate, ColType, ColJournalRef, ColDescription,
	ColContrib, ColCharges, ColNet, ColDonationUse,
}

// NeedsReviewHeaders differs only in the last column, which preserves the
// unmatched designation text.
var NeedsReviewHeaders = []string{
	ColDate, ColType, ColJournalRef, ColDescription,
	ColContrib, ColCharges, ColNet, ColDesignation,
}

var requiredSummaryHeaders = []string{
	SummaryColClub, SummaryColRollover, SummaryColContrib,
	SummaryColCharges, SummaryColExpenses, SummaryColRemaining,
}

// Prepared is a validated summary workbook ready to merge into.
type Prepared struct {
	Workbook  *workbook.Workbook
	Clubs     []string // club names from the Summary sheet, in listed order
	headerRow int
	columns   map[string]int
}

// Merger mutates summary workbooks.
type Merger struct {
	logger logging.Logger
}

// New creates a merger.
func New(logger logging.Logger) *Merger {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Merger{logger: logger}
}

// Prepare validates the Summary sheet, collects the club universe from its
// rows and ensures a sheet exists for every club plus the Needs Review and
// Summary Individual sheets. Missing Summary sheet or headers is fatal.
func (m *Merger) Prepare(wb *workbook.Workbook, filePath string) (*Prepared, error) {
	summary, ok := wb.Sheet(SummarySheetName)
	if !ok {
		return nil, &parsererror.ValidationError{
			FilePath: filePath,
			Sheet:    SummarySheetName,
			Reason:   "summary sheet not found",
		}
	}

	headerRow, cols := summary.FindHeaderRow(requiredSummaryHeaders, summaryHeaderSearchRows)
	if headerRow < 0 {
		return nil, &parsererror.ValidationError{
			FilePath: filePath,
			Sheet:    SummarySheetName,
			Reason:   "header row with required summary columns not found",
		}
	}

	clubCol := cols[SummaryColClub]
	var clubs []string
	for r := headerRow + 1; r < len(summary.Rows); r++ {
		name := strings.TrimSpace(summary.CellString(r, clubCol))
		if name == "" || strings.EqualFold(name, "grand total") {
			continue
		}
		clubs = append(clubs, name)
	}
	if len(clubs) == 0 {
		return nil, &parsererror.ValidationError{
			FilePath: filePath,
			Sheet:    SummarySheetName,
			Reason:   "no club names found below the summary header",
		}
	}

	for _, club := range clubs {
		wb.Ensure(workbook.SafeSheetName(club), ClubSheetHeaders)
	}
	wb.Ensure(NeedsReviewSheetName, NeedsReviewHeaders)
	wb.Ensure(SummaryIndividualSheetName, ClubSheetHeaders)

	m.logger.Info("prepared summary workbook",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(clubs)))

	return &Prepared{
		Workbook:  wb,
		Clubs:     clubs,
		headerRow: headerRow,
		columns:   cols,
	}, nil
}

// Outcome describes what MergeTransaction did with one transaction.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeNeedsReview
	OutcomeDuplicate
)

// MergeTransaction inserts the transaction into its club sheet, or into
// Needs Review when unmatched. A row whose normalized reference already
// exists in the target sheet is a duplicate and nothing is inserted. The
// chosen sheet name is returned for matched transactions.
func (m *Merger) MergeTransaction(p *Prepared, tx *models.AggregatedTransaction, matchedClub string) (Outcome, string) {
	targetName := NeedsReviewSheetName
	needsReview := true
	if matchedClub != "" {
		safe := workbook.SafeSheetName(matchedClub)
		if p.Workbook.Has(safe) {
			targetName = safe
			needsReview = false
		} else {
			m.logger.Error("matched club has no sheet, routing to review",
				logging.F(logging.FieldClub, matchedClub),
				logging.F(logging.FieldSheet, safe))
		}
	}

	target, _ := p.Workbook.Sheet(targetName)
	if SheetHasRef(target, tx.NormalizedRef) {
		m.logger.Debug("journal reference already present in sheet",
			logging.F(logging.FieldSheet, targetName),
			logging.F(logging.FieldJournalRef, tx.RawRef))
		return OutcomeDuplicate, ""
	}

	lastCol := matchedClub
	if needsReview {
		lastCol = tx.Designation
	}
	target.Append(transactionRow(tx, lastCol))

	if needsReview {
		return OutcomeNeedsReview, ""
	}
	return OutcomeInserted, targetName
}

// IndividualEntry pairs a transaction inserted into a club sheet this run
// with the club it went to, for the Summary Individual rebuild.
type IndividualEntry struct {
	Tx   *models.AggregatedTransaction
	Club string
}

// RebuildSummaryIndividual clears Summary Individual below its header and
// repopulates it from the transactions merged into club sheets this run,
// sorted by date then club name. The last column keeps the original
// designation text rather than the assigned club.
func (m *Merger) RebuildSummaryIndividual(p *Prepared, entries []IndividualEntry) {
	indiv, _ := p.Workbook.Sheet(SummaryIndividualSheetName)
	indiv.TruncateBelow(0)

	sorted := make([]IndividualEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Tx.Date.Equal(sorted[j].Tx.Date) {
			return sorted[i].Tx.Date.Before(sorted[j].Tx.Date)
		}
		return sorted[i].Club < sorted[j].Club
	})
	for _, e := range sorted {
		indiv.Append(transactionRow(e.Tx, e.Tx.Designation))
	}

	m.logger.Debug("rebuilt summary individual sheet",
		logging.F(logging.FieldCount, len(sorted)))
}

// Recalculate recomputes the fiscal-year totals on the Summary sheet from
// the club sheets. Only rows dated on or after the current fiscal year start
// (July 1, relative to asOf) count. Remaining = rollover + contributions −
// charges − expenses; rollover and expenses are read, not computed.
func (m *Merger) Recalculate(p *Prepared, asOf time.Time) {
	summary, _ := p.Workbook.Sheet(SummarySheetName)
	fyStart := dateutils.FiscalYearStart(asOf)

	clubCol := p.columns[SummaryColClub]
	for r := p.headerRow + 1; r < len(summary.Rows); r++ {
		club := strings.TrimSpace(summary.CellString(r, clubCol))
		if club == "" || strings.EqualFold(club, "grand total") {
			continue
		}

		contrib, charges := m.fiscalYearTotals(p, club, fyStart)
		rollover := models.ParseAmount(summary.CellString(r, p.columns[SummaryColRollover]))
		expenses := models.ParseAmount(summary.CellString(r, p.columns[SummaryColExpenses]))
		remaining := rollover.Add(contrib).Sub(charges).Sub(expenses)

		summary.SetCell(r, p.columns[SummaryColContrib], workbook.Cell{Value: contrib, Format: workbook.FormatCurrency})
		summary.SetCell(r, p.columns[SummaryColCharges], workbook.Cell{Value: charges, Format: workbook.FormatCurrency})
		summary.SetCell(r, p.columns[SummaryColExpenses], workbook.Cell{Value: expenses, Format: workbook.FormatCurrency})
		summary.SetCell(r, p.columns[SummaryColRemaining], workbook.Cell{Value: remaining, Format: workbook.FormatCurrency})
	}

	m.logger.Debug("recalculated summary sheet",
		logging.F("fiscal_year_start", fyStart.Format("2006-01-02")))
}

// fiscalYearTotals sums the contribution and charges columns of one club
// sheet for rows dated on or after fyStart.
func (m *Merger) fiscalYearTotals(p *Prepared, club string, fyStart time.Time) (contrib, charges decimal.Decimal) {
	sheet, ok := p.Workbook.Sheet(workbook.SafeSheetName(club))
	if !ok || len(sheet.Rows) < 2 {
		return contrib, charges
	}
	dateCol := sheet.HeaderIndex(0, ColDate)
	contribCol := sheet.HeaderIndex(0, ColContrib)
	chargesCol := sheet.HeaderIndex(0, ColCharges)
	if dateCol < 0 || contribCol < 0 || chargesCol < 0 {
		return contrib, charges
	}

	for r := 1; r < len(sheet.Rows); r++ {
		date, ok := sheet.CellDate(r, dateCol)
		if !ok || date.Before(fyStart) {
			continue
		}
		contrib = contrib.Add(models.ParseAmount(sheet.CellString(r, contribCol)))
		charges = charges.Add(models.ParseAmount(sheet.CellString(r, chargesCol)))
	}
	return contrib, charges
}

// Finish puts the sheets in presentation order: Summary, Summary Individual,
// Needs Review, then the club sheets alphabetically.
func (m *Merger) Finish(p *Prepared) {
	clubSheets := make([]string, 0, len(p.Clubs))
	for _, club := range p.Clubs {
		clubSheets = append(clubSheets, workbook.SafeSheetName(club))
	}
	sort.Strings(clubSheets)

	order := append([]string{
		SummarySheetName, SummaryIndividualSheetName, NeedsReviewSheetName,
	}, clubSheets...)
	p.Workbook.Reorder(order)
}

// SheetHasRef scans a sheet's Journal Ref column for the normalized ref.
func SheetHasRef(sheet *workbook.Sheet, normalizedRef string) bool {
	col := sheet.HeaderIndex(0, ColJournalRef)
	if col < 0 {
		return false
	}
	for r := 1; r < len(sheet.Rows); r++ {
		if models.NormalizeRef(sheet.CellString(r, col)) == normalizedRef {
			return true
		}
	}
	return false
}

// transactionRow builds a club/review sheet row. lastCol is the Donation Use
// value for club sheets or the original designation for Needs Review.
func transactionRow(tx *models.AggregatedTransaction, lastCol string) workbook.Row {
	return workbook.Row{
		{Value: tx.Date, Format: workbook.FormatDate},
		{Value: tx.TypeLabel()},
		{Value: tx.RawRef},
		{Value: tx.PrimaryDescription},
		{Value: tx.ContributionTotal, Format: workbook.FormatCurrency},
		{Value: tx.FeeTotal, Format: workbook.FormatCurrency},
		{Value: tx.NetAmount(), Format: workbook.FormatCurrency},
		{Value: lastCol},
	}
}

// EntryRow builds the same row shape from a persisted entry, used by the
// review workflow when replaying an entry into a sheet.
func EntryRow(e *models.ReconciledEntry, lastCol string) workbook.Row {
	typeLabel := "Fee/Expense"
	if e.GrossAmount.IsPositive() {
		typeLabel = "Contribution"
	}
	return workbook.Row{
		{Value: e.Date, Format: workbook.FormatDate},
		{Value: typeLabel},
		{Value: e.JournalRef},
		{Value: e.Description},
		{Value: e.GrossAmount, Format: workbook.FormatCurrency},
		{Value: e.FeesTotal, Format: workbook.FormatCurrency},
		{Value: e.NetAmount, Format: workbook.FormatCurrency},
		{Value: lastCol},
	}
}
