// Package export handles exporting the persisted entries to CSV
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"clubrecon/cmd/root"
	"clubrecon/internal/models"
)

var outputPath string

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export all persisted entries to a CSV file",
	Long: `Export writes every persisted reconciled entry, including those still
awaiting review, to a CSV file for use outside the tool.`,
	RunE: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "entries.csv", "Output CSV file")
}

// csvEntry is the flat CSV projection of a persisted entry.
type csvEntry struct {
	ID          int64  `csv:"id"`
	Date        string `csv:"date"`
	JournalRef  string `csv:"journal_ref"`
	Description string `csv:"description"`
	Designation string `csv:"designation"`
	Gross       string `csv:"gross_amount"`
	Fees        string `csv:"fees_total"`
	Net         string `csv:"net_amount"`
	Club        string `csv:"assigned_club"`
	Status      string `csv:"status"`
}

func exportFunc(cmd *cobra.Command, args []string) error {
	entries, err := root.Gateway.All()
	if err != nil {
		return err
	}

	rows := make([]csvEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toCSVEntry(e))
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	cmd.Printf("Exported %d entries to %s\n", len(rows), outputPath)
	return nil
}

func toCSVEntry(e models.ReconciledEntry) csvEntry {
	return csvEntry{
		ID:          e.ID,
		Date:        e.Date.Format(time.DateOnly),
		JournalRef:  e.JournalRef,
		Description: e.Description,
		Designation: e.Designation,
		Gross:       e.GrossAmount.StringFixed(2),
		Fees:        e.FeesTotal.StringFixed(2),
		Net:         e.NetAmount.StringFixed(2),
		Club:        e.AssignedClub,
		Status:      string(e.Status),
	}
}
