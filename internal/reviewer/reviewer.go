// Package reviewer implements the manual review workflow: assigning a
// needs-review entry to a club replays the merge for that one entry.
package reviewer

import (
	"fmt"
	"time"

	"clubrecon/internal/logging"
	"clubrecon/internal/merger"
	"clubrecon/internal/models"
	"clubrecon/internal/store"
	"clubrecon/internal/workbook"
)

// Reviewer performs scoped replays of the merge for individual entries. All
// workbook changes happen in memory; the caller serializes the workbook only
// when Assign returns nil, which keeps the operation atomic on disk.
type Reviewer struct {
	gateway store.Gateway
	merger  *merger.Merger
	logger  logging.Logger
	now     func() time.Time
}

// New creates a reviewer. now is injectable for fiscal-year tests; nil means
// time.Now.
func New(gateway store.Gateway, m *merger.Merger, logger logging.Logger, now func() time.Time) *Reviewer {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	if now == nil {
		now = time.Now
	}
	return &Reviewer{gateway: gateway, merger: m, logger: logger, now: now}
}

// Assign moves the entry from the review queue to the club: the matching row
// leaves the Needs Review sheet, lands on the club's sheet (created if
// absent), Summary Individual is updated and the Summary totals are
// recalculated. The gateway assignment happens last, so a persistence
// failure leaves nothing to save.
func (r *Reviewer) Assign(p *merger.Prepared, entryID int64, club models.Club) error {
	entry, err := r.gateway.Get(entryID)
	if err != nil {
		return err
	}
	if entry.Status != models.StatusNeedsReview {
		return fmt.Errorf("entry %d has status %q, expected %q",
			entryID, entry.Status, models.StatusNeedsReview)
	}

	log := r.logger.WithFields(
		logging.F(logging.FieldEntryID, entryID),
		logging.F(logging.FieldClub, club.Name),
		logging.F(logging.FieldJournalRef, entry.JournalRef),
	)

	if removed := r.Replay(p, entry, club); removed == 0 {
		log.Warn("entry not present on needs review sheet")
	}

	if err := r.gateway.AssignClub(entryID, club); err != nil {
		return err
	}

	log.Info("entry assigned to club")
	return nil
}

// Replay applies one entry's club assignment to the workbook without
// touching the store: any matching Needs Review rows are removed, the entry
// lands on the club's sheet (created if absent), Summary Individual is
// updated or appended and the Summary totals are recalculated. It returns
// how many review rows were removed, which is zero for entries that never
// went through review.
func (r *Reviewer) Replay(p *merger.Prepared, entry *models.ReconciledEntry, club models.Club) int {
	normRef := models.NormalizeRef(entry.JournalRef)
	removed := removeFromReview(p, normRef)

	clubSheet := p.Workbook.Ensure(workbook.SafeSheetName(club.Name), merger.ClubSheetHeaders)
	if !merger.SheetHasRef(clubSheet, normRef) {
		clubSheet.Append(merger.EntryRow(entry, club.Name))
	}

	upsertIndividual(p, entry, normRef)
	r.merger.Recalculate(p, r.now())
	return removed
}

// removeFromReview deletes every Needs Review row carrying the normalized
// reference, scanning bottom-up so deletions do not shift unvisited rows.
func removeFromReview(p *merger.Prepared, normRef string) int {
	review, ok := p.Workbook.Sheet(merger.NeedsReviewSheetName)
	if !ok {
		return 0
	}
	col := review.HeaderIndex(0, merger.ColJournalRef)
	if col < 0 {
		return 0
	}
	removed := 0
	for i := len(review.Rows) - 1; i >= 1; i-- {
		if models.NormalizeRef(review.CellString(i, col)) == normRef {
			review.DeleteRow(i)
			removed++
		}
	}
	return removed
}

// upsertIndividual replaces the Summary Individual row with the entry's
// reference, or appends one when absent. The last column keeps the original
// designation.
func upsertIndividual(p *merger.Prepared, entry *models.ReconciledEntry, normRef string) {
	indiv, ok := p.Workbook.Sheet(merger.SummaryIndividualSheetName)
	if !ok {
		return
	}
	row := merger.EntryRow(entry, entry.Designation)
	col := indiv.HeaderIndex(0, merger.ColJournalRef)
	if col >= 0 {
		for i := 1; i < len(indiv.Rows); i++ {
			if models.NormalizeRef(indiv.CellString(i, col)) == normRef {
				indiv.Rows[i] = row
				return
			}
		}
	}
	indiv.Append(row)
}
