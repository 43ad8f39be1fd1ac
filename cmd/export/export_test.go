package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"clubrecon/internal/models"
)

func TestExportCommand_Metadata(t *testing.T) {
	assert.Equal(t, "export", Cmd.Use)
	assert.Contains(t, Cmd.Short, "CSV")
	assert.Contains(t, Cmd.Long, "persisted")
	assert.NotNil(t, Cmd.RunE)
}

func TestExportCommand_Flags(t *testing.T) {
	flag := Cmd.Flags().Lookup("output")
	assert.NotNil(t, flag)
	assert.Equal(t, "entries.csv", flag.DefValue)
}

func TestToCSVEntry(t *testing.T) {
	entry := models.ReconciledEntry{
		ID:           7,
		Date:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		JournalRef:   "12345",
		Description:  "Jane Donor",
		Designation:  "Archery Club",
		GrossAmount:  decimal.NewFromInt(100),
		FeesTotal:    decimal.RequireFromString("5"),
		NetAmount:    decimal.NewFromInt(95),
		AssignedClub: "Archery Club",
		Status:       models.StatusReconciled,
	}

	row := toCSVEntry(entry)

	assert.Equal(t, int64(7), row.ID)
	assert.Equal(t, "2025-07-01", row.Date)
	assert.Equal(t, "100.00", row.Gross)
	assert.Equal(t, "5.00", row.Fees)
	assert.Equal(t, "95.00", row.Net)
	assert.Equal(t, "reconciled", row.Status)
}
