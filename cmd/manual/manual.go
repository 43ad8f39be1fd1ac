// Package manual handles direct entry of transactions that never appeared
// in a ledger export.
package manual

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clubrecon/cmd/root"
	"clubrecon/internal/dateutils"
	"clubrecon/internal/merger"
	"clubrecon/internal/models"
	"clubrecon/internal/reviewer"
	"clubrecon/internal/workbook"
)

var (
	clubArg      string
	typeArg      string
	amountArg    string
	dateArg      string
	descArg      string
	refArg       string
	workbookPath string
)

// Cmd represents the manual command
var Cmd = &cobra.Command{
	Use:   "manual",
	Short: "Record a transaction that has no ledger line",
	Long: `Manual records a single transaction directly: it is persisted with status
reconciled and replayed into the summary workbook the same way a review
assignment is. The journal reference must be unique; when omitted, one is
generated.`,
	RunE: manualFunc,
}

func init() {
	Cmd.Flags().StringVar(&clubArg, "club", "", "Club id or name (required)")
	Cmd.Flags().StringVar(&typeArg, "type", "contribution", "Transaction type: contribution or fee")
	Cmd.Flags().StringVar(&amountArg, "amount", "", "Positive amount, e.g. 125.00 (required)")
	Cmd.Flags().StringVar(&dateArg, "date", "", "Transaction date (required)")
	Cmd.Flags().StringVar(&descArg, "desc", "", "Donor or expense description (required)")
	Cmd.Flags().StringVar(&refArg, "ref", "", "Journal reference (default: generated)")
	Cmd.Flags().StringVar(&workbookPath, "workbook", "", "Summary workbook to replay the entry into (required)")
	_ = Cmd.MarkFlagRequired("club")
	_ = Cmd.MarkFlagRequired("amount")
	_ = Cmd.MarkFlagRequired("date")
	_ = Cmd.MarkFlagRequired("desc")
	_ = Cmd.MarkFlagRequired("workbook")
}

func manualFunc(cmd *cobra.Command, args []string) error {
	log := root.Log.WithField("command", "manual")
	now := time.Now()

	entry, err := buildEntry(now)
	if err != nil {
		return err
	}

	existing, err := root.Gateway.ExistingRefs()
	if err != nil {
		return err
	}
	if existing[models.NormalizeRef(entry.JournalRef)] {
		return fmt.Errorf("journal ref %q is already recorded", entry.JournalRef)
	}

	wb, err := workbook.LoadFile(workbookPath)
	if err != nil {
		return err
	}
	m := merger.New(log)
	prepared, err := m.Prepare(wb, workbookPath)
	if err != nil {
		return err
	}

	club, err := root.ResolveClub(clubArg, prepared.Clubs)
	if err != nil {
		return err
	}
	entry.ClubID = club.ID
	entry.AssignedClub = club.Name
	entry.Designation = club.Name

	if err := root.Gateway.Commit([]models.ReconciledEntry{*entry}); err != nil {
		return err
	}

	reviewer.New(root.Gateway, m, log, nil).Replay(prepared, entry, club)
	m.Finish(prepared)

	if err := workbook.SaveFile(prepared.Workbook, workbookPath); err != nil {
		return fmt.Errorf("entry %s persisted, but rewriting %s failed: %w",
			entry.JournalRef, workbookPath, err)
	}
	cmd.Printf("Recorded %s %s for %s (%s); workbook %s updated.\n",
		typeArg, entry.NetAmount.Abs().StringFixed(2), club.Name, entry.JournalRef, workbookPath)
	return nil
}

// buildEntry validates the flag values into a reconciled entry. The amount
// lands on the gross or fee side depending on the type.
func buildEntry(now time.Time) (*models.ReconciledEntry, error) {
	date, err := dateutils.ParseDate(dateArg)
	if err != nil {
		return nil, fmt.Errorf("invalid --date %q: %w", dateArg, err)
	}

	amount := models.ParseAmount(amountArg)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("invalid --amount %q: must be a positive number", amountArg)
	}

	ref := strings.TrimSpace(refArg)
	if ref == "" {
		ref = "MANUAL-" + now.Format("20060102150405")
	}

	entry := &models.ReconciledEntry{
		Date:        date,
		JournalRef:  ref,
		Description: descArg,
		Status:      models.StatusReconciled,
	}
	switch strings.ToLower(typeArg) {
	case "contribution":
		entry.GrossAmount = amount
		entry.NetAmount = amount
	case "fee":
		entry.FeesTotal = amount
		entry.NetAmount = amount.Neg()
	default:
		return nil, fmt.Errorf("invalid --type %q: must be contribution or fee", typeArg)
	}
	return entry, nil
}
