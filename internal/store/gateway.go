// Package store provides persistence for reconciled entries and club
// reference data, backed by YAML files.
package store

import "clubrecon/internal/models"

// Gateway is the persistence boundary for reconciled entries. The
// reconciliation pipeline only ever talks to this interface, so the backing
// format can change without touching the pipeline.
type Gateway interface {
	// ExistingRefs returns the set of normalized journal references already
	// persisted, used to skip transactions from prior runs.
	ExistingRefs() (map[string]bool, error)

	// Commit persists new entries. Entries whose normalized journal
	// reference is already present are skipped, making repeat runs
	// idempotent.
	Commit(entries []models.ReconciledEntry) error

	// Get returns the entry with the given id.
	Get(id int64) (*models.ReconciledEntry, error)

	// NeedsReview returns all entries awaiting club assignment.
	NeedsReview() ([]models.ReconciledEntry, error)

	// AssignClub marks the entry as reconciled against the given club.
	AssignClub(id int64, club models.Club) error

	// SetStatus updates an entry's review status without assigning a club.
	SetStatus(id int64, status models.Status) error

	// All returns every persisted entry.
	All() ([]models.ReconciledEntry, error)

	// Clear removes every persisted entry.
	Clear() error
}
