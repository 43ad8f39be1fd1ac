package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubrecon/internal/donorparser"
	"clubrecon/internal/merger"
	"clubrecon/internal/models"
	"clubrecon/internal/store"
	"clubrecon/internal/workbook"
)

var fixedNow = func() time.Time { return time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC) }

func ledgerWorkbook(rows ...[]string) *workbook.Workbook {
	wb := workbook.New()
	s := wb.Add("Activity Detail")
	s.Append(workbook.StringRow("Post Date", "Transaction#", "Invoice Description / Journal Ref", "Debit", "Credit"))
	for _, r := range rows {
		s.Append(workbook.StringRow(r...))
	}
	s.Append(workbook.StringRow("Grand Total"))
	return wb
}

func donorWorkbook(rows ...[3]string) *workbook.Workbook {
	wb := workbook.New()
	s := wb.Add(donorparser.SheetName)
	for i := 0; i < donorparser.SkipRows; i++ {
		s.Append(workbook.StringRow("Report of Gifts Received"))
	}
	for _, r := range rows {
		s.Append(workbook.StringRow("", r[0], "", "", "", r[1], "", "", r[2]))
	}
	return wb
}

func summaryWorkbook() *workbook.Workbook {
	wb := workbook.New()
	s := wb.Add(merger.SummarySheetName)
	s.Append(workbook.StringRow(
		merger.SummaryColClub, merger.SummaryColRollover, merger.SummaryColContrib,
		merger.SummaryColCharges, merger.SummaryColExpenses, merger.SummaryColRemaining,
	))
	s.Append(workbook.StringRow("Archery Club", "0", "", "", "0", ""))
	s.Append(workbook.StringRow("Climbing Club", "0", "", "", "0", ""))
	return wb
}

func inputs(ledger, donor, summary *workbook.Workbook) Inputs {
	return Inputs{
		Ledger: ledger, Donor: donor, Summary: summary,
		LedgerPath: "ledger.xlsx", DonorPath: "donor.xlsx", SummaryPath: "summary.xlsx",
	}
}

func TestRun_MatchedContribution(t *testing.T) {
	ledger := ledgerWorkbook(
		[]string{"Account: 4100-774390 (Contributions - Cash)"},
		[]string{"7/15/2025", "", "Cash Contribution - John Smith/AB1234", "", "100.00"},
	)
	donor := donorWorkbook([3]string{"AB1234", "7/15/2025", "Archery Club"})

	r := New(store.NewMockGateway(), nil, nil, fixedNow)
	wb, result := r.Run(inputs(ledger, donor, summaryWorkbook()))
	require.NotNil(t, wb)
	require.Empty(t, result.Errors)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.NeedsReview)

	club, ok := wb.Sheet("Archery Club")
	require.True(t, ok)
	require.Len(t, club.Rows, 2)
	assert.Equal(t, "AB1234", club.CellString(1, 2))
	assert.Equal(t, "John Smith", club.CellString(1, 3))
	assert.Equal(t, "100", club.CellString(1, 4))
	assert.Equal(t, "0", club.CellString(1, 5))
	assert.Equal(t, "100", club.CellString(1, 6))

	// Summary recalculated for the club.
	summary, _ := wb.Sheet(merger.SummarySheetName)
	assert.Equal(t, "100", summary.CellString(1, 2))
	assert.Equal(t, "100", summary.CellString(1, 5))

	// New entry handed back for persistence.
	require.Len(t, result.NewEntries, 1)
	assert.Equal(t, models.StatusReconciled, result.NewEntries[0].Status)
	assert.Equal(t, "Archery Club", result.NewEntries[0].AssignedClub)

	// Sheets in presentation order.
	assert.Equal(t, merger.SummarySheetName, wb.Names()[0])
	assert.Equal(t, merger.SummaryIndividualSheetName, wb.Names()[1])
	assert.Equal(t, merger.NeedsReviewSheetName, wb.Names()[2])
}

func TestRun_UnmatchedGoesToReview(t *testing.T) {
	ledger := ledgerWorkbook(
		[]string{"Account: 4100-774390 (Contributions - Cash)"},
		[]string{"7/15/2025", "", "Cash Contribution - Jane Doe/CD5678", "", "100.00"},
	)
	donor := donorWorkbook([3]string{"CD5678", "7/15/2025", "Unknown Team Xyz"})

	r := New(store.NewMockGateway(), nil, nil, fixedNow)
	wb, result := r.Run(inputs(ledger, donor, summaryWorkbook()))
	require.NotNil(t, wb)

	assert.Equal(t, 1, result.NeedsReview)
	review, _ := wb.Sheet(merger.NeedsReviewSheetName)
	require.Len(t, review.Rows, 2)
	assert.Equal(t, "Unknown Team Xyz", review.CellString(1, 7))

	require.Len(t, result.NewEntries, 1)
	assert.Equal(t, models.StatusNeedsReview, result.NewEntries[0].Status)
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	donor := donorWorkbook([3]string{"AB1234", "7/15/2025", "Archery Club"})
	summary := summaryWorkbook()

	run := func() (*workbook.Workbook, *models.RunResult) {
		ledger := ledgerWorkbook(
			[]string{"Account: 4100-774390 (Contributions - Cash)"},
			[]string{"7/15/2025", "", "Cash Contribution - John Smith/AB1234", "", "100.00"},
		)
		r := New(store.NewMockGateway(), nil, nil, fixedNow)
		return r.Run(Inputs{
			Ledger: ledger, Donor: donor, Summary: summary,
			LedgerPath: "ledger.xlsx", DonorPath: "donor.xlsx", SummaryPath: "summary.xlsx",
		})
	}

	wb, first := run()
	require.NotNil(t, wb)
	assert.Equal(t, 1, first.Processed)

	// Second run against the already-updated workbook.
	wb2, second := run()
	require.NotNil(t, wb2)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 1, second.DuplicatesSheet)

	club, _ := wb2.Sheet("Archery Club")
	assert.Len(t, club.Rows, 2)
}

func TestRun_StoreDuplicateNotRecommitted(t *testing.T) {
	ledger := ledgerWorkbook(
		[]string{"Account: 4100-774390 (Contributions - Cash)"},
		[]string{"7/15/2025", "", "Cash Contribution - John Smith/AB1234", "", "100.00"},
	)
	donor := donorWorkbook([3]string{"AB1234", "7/15/2025", "Archery Club"})

	gw := store.NewMockGateway()
	gw.Entries = []models.ReconciledEntry{{
		ID: 1, JournalRef: "AB1234", Status: models.StatusReconciled,
	}}

	r := New(gw, nil, nil, fixedNow)
	wb, result := r.Run(inputs(ledger, donor, summaryWorkbook()))
	require.NotNil(t, wb)

	// The row still lands in the workbook, but is not handed back for the
	// store.
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.DuplicatesStore)
	assert.Empty(t, result.NewEntries)
}

func TestRun_OutOfWindowExcluded(t *testing.T) {
	ledger := ledgerWorkbook(
		[]string{"Account: 4100-774390 (Contributions - Cash)"},
		[]string{"6/01/2025", "", "Cash Contribution - Too Early/AA1111", "", "10.00"},
		[]string{"7/15/2025", "", "Cash Contribution - In Range/BB2222", "", "20.00"},
	)
	donor := donorWorkbook(
		[3]string{"BB2222", "7/10/2025", "Archery Club"},
		[3]string{"ZZ9999", "7/20/2025", "Archery Club"},
	)

	r := New(store.NewMockGateway(), nil, nil, fixedNow)
	wb, result := r.Run(inputs(ledger, donor, summaryWorkbook()))
	require.NotNil(t, wb)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.SkippedOutOfRange)
}

func TestRun_FatalDonorFailure(t *testing.T) {
	donor := workbook.New()
	donor.Add("Wrong Sheet")

	r := New(store.NewMockGateway(), nil, nil, fixedNow)
	wb, result := r.Run(inputs(ledgerWorkbook(), donor, summaryWorkbook()))
	assert.Nil(t, wb)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], donorparser.SheetName)
}

func TestRun_FatalSummaryFailure(t *testing.T) {
	donor := donorWorkbook([3]string{"AB1234", "7/15/2025", "Archery Club"})
	summary := workbook.New()
	summary.Add("Not A Summary")

	r := New(store.NewMockGateway(), nil, nil, fixedNow)
	wb, result := r.Run(inputs(ledgerWorkbook(), donor, summary))
	assert.Nil(t, wb)
	assert.NotEmpty(t, result.Errors)
}

func TestRun_FatalLedgerHeaderFailure(t *testing.T) {
	ledger := workbook.New()
	ledger.Add("Activity").Append(workbook.StringRow("Nothing useful"))
	donor := donorWorkbook([3]string{"AB1234", "7/15/2025", "Archery Club"})

	r := New(store.NewMockGateway(), nil, nil, fixedNow)
	wb, result := r.Run(inputs(ledger, donor, summaryWorkbook()))
	assert.Nil(t, wb)
	assert.NotEmpty(t, result.Errors)
}
