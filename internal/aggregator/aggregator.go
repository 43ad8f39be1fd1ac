// Package aggregator folds extracted ledger lines into logical transactions
// keyed by normalized journal reference.
package aggregator

import (
	"clubrecon/internal/logging"
	"clubrecon/internal/models"
	"clubrecon/internal/textutils"
)

// Placeholder descriptions used when no readable line text survives.
const (
	descUnknown        = "[Unknown Description]"
	descDonorNotParsed = "[Donor Name Not Parsed]"
)

// Aggregator groups ledger lines into transactions.
type Aggregator struct {
	logger logging.Logger
}

// New creates an aggregator.
func New(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups the (already date-filtered) lines by normalized journal
// reference, in first-seen order. Contribution and fee sums are kept
// independent. The designation lookup is keyed by normalized reference.
func (a *Aggregator) Aggregate(lines []models.LedgerLine, designations map[string]string) []models.AggregatedTransaction {
	byRef := make(map[string]*models.AggregatedTransaction)
	var order []string

	for _, line := range lines {
		tx, ok := byRef[line.NormalizedRef]
		if !ok {
			tx = &models.AggregatedTransaction{
				NormalizedRef: line.NormalizedRef,
				RawRef:        line.RawRef,
				Date:          line.Date,
				Designation:   designations[line.NormalizedRef],
			}
			byRef[line.NormalizedRef] = tx
			order = append(order, line.NormalizedRef)
		}

		switch line.Kind {
		case models.LineContribution:
			tx.ContributionTotal = tx.ContributionTotal.Add(line.Amount)
		case models.LineFee:
			tx.FeeTotal = tx.FeeTotal.Add(line.Amount)
		}
		tx.Lines = append(tx.Lines, line.TransactionLine)
	}

	out := make([]models.AggregatedTransaction, 0, len(order))
	for _, ref := range order {
		tx := byRef[ref]
		tx.PrimaryDescription = primaryDescription(tx)
		out = append(out, *tx)
	}

	a.logger.Debug("aggregated ledger lines",
		logging.F(logging.FieldCount, len(out)))
	return out
}

// primaryDescription derives the display description for a transaction.
// Priority: cleaned first contribution line, then the canonical fee label of
// the first fee line, then that line's raw text, then a placeholder.
func primaryDescription(tx *models.AggregatedTransaction) string {
	var firstContrib, firstFee *models.TransactionLine
	for i := range tx.Lines {
		switch tx.Lines[i].Kind {
		case models.LineContribution:
			if firstContrib == nil {
				firstContrib = &tx.Lines[i]
			}
		case models.LineFee:
			if firstFee == nil {
				firstFee = &tx.Lines[i]
			}
		}
	}

	if firstContrib != nil {
		cleaned := textutils.CleanContributionDescription(firstContrib.RawDescription, tx.RawRef)
		if cleaned == "" {
			return descDonorNotParsed
		}
		return cleaned
	}
	if firstFee != nil {
		if label := textutils.FeeLabel(firstFee.RawDescription); label != "" {
			return label
		}
		if firstFee.RawDescription != "" {
			return "[Fee] " + firstFee.RawDescription
		}
	}
	return descUnknown
}
