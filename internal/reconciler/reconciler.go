// Package reconciler wires the pipeline together: donor resolution, ledger
// extraction, aggregation, club matching and the workbook merge.
package reconciler

import (
	"fmt"
	"time"

	"clubrecon/internal/aggregator"
	"clubrecon/internal/donorparser"
	"clubrecon/internal/ledgerparser"
	"clubrecon/internal/logging"
	"clubrecon/internal/matcher"
	"clubrecon/internal/merger"
	"clubrecon/internal/models"
	"clubrecon/internal/store"
	"clubrecon/internal/workbook"
)

// Inputs are the three loaded workbooks plus their paths for error messages.
type Inputs struct {
	Ledger  *workbook.Workbook
	Donor   *workbook.Workbook
	Summary *workbook.Workbook

	LedgerPath  string
	DonorPath   string
	SummaryPath string

	// LedgerSheet overrides the ledger sheet heuristic when set.
	LedgerSheet string
}

// Reconciler runs the full reconciliation pipeline.
type Reconciler struct {
	ledger  *ledgerparser.Parser
	donor   *donorparser.Parser
	agg     *aggregator.Aggregator
	match   matcher.Strategy
	merger  *merger.Merger
	gateway store.Gateway
	logger  logging.Logger
	now     func() time.Time
}

// New creates a reconciler. now is injectable for fiscal-year tests; nil
// means time.Now.
func New(gateway store.Gateway, strategy matcher.Strategy, logger logging.Logger, now func() time.Time) *Reconciler {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	if now == nil {
		now = time.Now
	}
	if strategy == nil {
		strategy = matcher.NewWholeWord(logger)
	}
	return &Reconciler{
		ledger:  ledgerparser.New(logger),
		donor:   donorparser.New(logger),
		agg:     aggregator.New(logger),
		match:   strategy,
		merger:  merger.New(logger),
		gateway: gateway,
		logger:  logger,
		now:     now,
	}
}

// Run executes one reconciliation pass. On success it returns the mutated
// summary workbook; a fatal structural failure returns a nil workbook with
// the failure recorded in the result's errors. Newly discovered entries are
// returned in the result for the caller to persist.
func (r *Reconciler) Run(in Inputs) (*workbook.Workbook, *models.RunResult) {
	result := &models.RunResult{}

	donorRes, err := r.donor.Resolve(in.Donor, in.DonorPath)
	if err != nil {
		result.AddError(err.Error())
		return nil, result
	}

	prepared, err := r.merger.Prepare(in.Summary, in.SummaryPath)
	if err != nil {
		result.AddError(err.Error())
		return nil, result
	}

	sheet, err := r.ledger.PickSheet(in.Ledger, in.LedgerSheet)
	if err != nil {
		result.AddError(err.Error())
		return nil, result
	}
	extraction, err := r.ledger.Extract(sheet, in.LedgerPath, donorRes.Window)
	if err != nil {
		result.AddError(err.Error())
		return nil, result
	}
	result.SkippedOutOfRange = extraction.SkippedOutOfRange
	if extraction.DroppedRows > 0 {
		result.AddWarning(fmt.Sprintf("%d ledger rows dropped (bad date or no journal reference)", extraction.DroppedRows))
	}

	txs := r.agg.Aggregate(extraction.Lines, donorRes.Designations)

	existingRefs, err := r.gateway.ExistingRefs()
	if err != nil {
		// The store commit re-checks references, so the run can continue.
		result.AddWarning(fmt.Sprintf("could not read existing entries: %v", err))
		existingRefs = map[string]bool{}
	}

	var individuals []merger.IndividualEntry
	for i := range txs {
		tx := &txs[i]
		club, _ := r.match.Match(tx.Designation, prepared.Clubs)

		outcome, sheetName := r.merger.MergeTransaction(prepared, tx, club)
		switch outcome {
		case merger.OutcomeDuplicate:
			result.DuplicatesSheet++
			continue
		case merger.OutcomeNeedsReview:
			result.NeedsReview++
		case merger.OutcomeInserted:
			individuals = append(individuals, merger.IndividualEntry{Tx: tx, Club: sheetName})
		}
		result.Processed++

		if existingRefs[tx.NormalizedRef] {
			result.DuplicatesStore++
			continue
		}
		status := models.StatusReconciled
		if outcome == merger.OutcomeNeedsReview {
			status = models.StatusNeedsReview
		}
		result.NewEntries = append(result.NewEntries, entryFromTransaction(tx, status, club))
	}

	r.merger.RebuildSummaryIndividual(prepared, individuals)
	r.merger.Recalculate(prepared, r.now())
	r.merger.Finish(prepared)

	r.logger.Info("reconciliation run complete",
		logging.F("processed", result.Processed),
		logging.F("needs_review", result.NeedsReview),
		logging.F("duplicates_sheet", result.DuplicatesSheet),
		logging.F("duplicates_store", result.DuplicatesStore),
		logging.F("skipped_out_of_range", result.SkippedOutOfRange))
	return prepared.Workbook, result
}

func entryFromTransaction(tx *models.AggregatedTransaction, status models.Status, club string) models.ReconciledEntry {
	return models.ReconciledEntry{
		Date:         tx.Date,
		JournalRef:   tx.RawRef,
		Description:  tx.PrimaryDescription,
		Designation:  tx.Designation,
		GrossAmount:  tx.ContributionTotal,
		FeesTotal:    tx.FeeTotal,
		NetAmount:    tx.NetAmount(),
		AssignedClub: club,
		Status:       status,
	}
}
