package logging

// Standardized field names for structured logging. Using constants keeps the
// log output consistent and easy to filter.
const (
	FieldFile       = "file_path"
	FieldSheet      = "sheet"
	FieldRow        = "row"
	FieldSection    = "section"
	FieldJournalRef = "journal_ref"
	FieldEntryID    = "entry_id"
	FieldClub       = "club"
	FieldCandidates = "candidates"
	FieldCount      = "count"
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldReason     = "reason"
)
