// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKind classifies a ledger line by its accounting section.
type LineKind string

const (
	LineContribution LineKind = "Contribution"
	LineFee          LineKind = "Fee"
)

// TransactionLine is a single extracted ledger line. Lines are ephemeral:
// they exist only between extraction and aggregation.
type TransactionLine struct {
	Kind           LineKind
	Amount         decimal.Decimal
	RawDescription string
	Date           time.Time
}

// LedgerLine pairs a TransactionLine with the journal reference extracted
// from its description, which is the aggregation key.
type LedgerLine struct {
	TransactionLine
	RawRef        string
	NormalizedRef string
}

// AggregatedTransaction is one logical transaction: all ledger lines sharing
// a normalized journal reference, with contribution and fee sums kept
// separate. The net amount is always derived, never stored.
type AggregatedTransaction struct {
	NormalizedRef      string
	RawRef             string
	Date               time.Time
	ContributionTotal  decimal.Decimal
	FeeTotal           decimal.Decimal
	PrimaryDescription string
	Designation        string
	Lines              []TransactionLine
}

// NetAmount returns contribution total minus fee total.
func (t *AggregatedTransaction) NetAmount() decimal.Decimal {
	return t.ContributionTotal.Sub(t.FeeTotal)
}

// TypeLabel is the display type used in workbook rows.
func (t *AggregatedTransaction) TypeLabel() string {
	if t.ContributionTotal.IsPositive() {
		return "Contribution"
	}
	return "Fee/Expense"
}

// Club is externally owned reference data; the matcher and merger only read it.
type Club struct {
	ID     int64  `yaml:"id"`
	Name   string `yaml:"name"`
	Active bool   `yaml:"active"`
}

// Status values for a ReconciledEntry.
type Status string

const (
	StatusNeedsReview Status = "needs_review"
	StatusReconciled  Status = "reconciled"
	StatusIgnored     Status = "ignored"
)

// ReconciledEntry is the persisted projection of an aggregated transaction.
// The journal reference is unique within the store; the status is mutated
// later only by the review workflow.
type ReconciledEntry struct {
	ID           int64           `yaml:"id"`
	Date         time.Time       `yaml:"date"`
	JournalRef   string          `yaml:"journal_ref"`
	Description  string          `yaml:"description"`
	Designation  string          `yaml:"designation"`
	GrossAmount  decimal.Decimal `yaml:"gross_amount"`
	FeesTotal    decimal.Decimal `yaml:"fees_total"`
	NetAmount    decimal.Decimal `yaml:"net_amount"`
	ClubID       int64           `yaml:"club_id,omitempty"`
	AssignedClub string          `yaml:"assigned_club,omitempty"`
	Status       Status          `yaml:"status"`
	CreatedAt    time.Time       `yaml:"created_at"`
	UpdatedAt    time.Time       `yaml:"updated_at"`
}

// DateWindow is the valid transaction date range computed from the donor
// export. Ledger dates outside it are excluded from reconciliation.
type DateWindow struct {
	Min   time.Time
	Max   time.Time
	Valid bool
}

// Contains reports whether d falls inside the window. An invalid window
// (no donor dates found) contains every date.
func (w DateWindow) Contains(d time.Time) bool {
	if !w.Valid {
		return true
	}
	return !d.Before(w.Min) && !d.After(w.Max)
}

// RunResult is the structured outcome of one reconciliation run.
type RunResult struct {
	Processed         int
	NeedsReview       int
	DuplicatesSheet   int
	DuplicatesStore   int
	SkippedOutOfRange int
	Errors            []string
	Warnings          []string

	// NewEntries are newly-discovered transactions for the caller to persist.
	NewEntries []ReconciledEntry
}

// AddError records a fatal-path error message.
func (r *RunResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a non-fatal warning message.
func (r *RunResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
