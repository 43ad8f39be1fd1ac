// Package parsererror defines the typed errors used by the reconciliation
// pipeline. ValidationError is fatal and aborts a run; RowError degrades to a
// logged warning; PersistenceError is surfaced separately from the workbook
// outcome so callers know persisted and workbook state may have diverged.
package parsererror

import (
	"errors"
	"fmt"
)

// ValidationError reports a structural problem with an input workbook, such
// as a missing sheet or a header row without the required columns. It aborts
// the whole run and no output artifact is produced.
type ValidationError struct {
	FilePath string
	Sheet    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("validation failed for %s, sheet '%s': %s", e.FilePath, e.Sheet, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// RowError reports a malformed individual row: a bad date or amount, or an
// unresolvable journal reference. The row is skipped and the run continues.
type RowError struct {
	Sheet string
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet '%s' row %d: failed to parse %s='%s': %v",
		e.Sheet, e.Row, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed gateway operation. The workbook artifact
// may still be valid, but is flagged as possibly not fully persisted.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err should abort the run with no output artifact.
func IsFatal(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
