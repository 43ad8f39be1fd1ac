// Package reconcile handles the full reconciliation run command
package reconcile

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"clubrecon/cmd/root"
	"clubrecon/internal/dateutils"
	"clubrecon/internal/logging"
	"clubrecon/internal/models"
	"clubrecon/internal/reconciler"
	"clubrecon/internal/workbook"
)

var (
	ledgerPath  string
	donorPath   string
	summaryPath string
	outputPath  string
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a full reconciliation pass",
	Long: `Reconcile a ledger export and a donor acknowledgement export against an
existing summary workbook. New transactions are merged into the per-club
sheets, unmatched ones go to Needs Review, and the fiscal-year summary totals
are recalculated. The updated workbook is written as a new artifact.`,
	RunE: reconcileFunc,
}

func init() {
	Cmd.Flags().StringVar(&ledgerPath, "ledger", "", "Ledger export spreadsheet (required)")
	Cmd.Flags().StringVar(&donorPath, "donor", "", "Donor acknowledgement spreadsheet (required)")
	Cmd.Flags().StringVar(&summaryPath, "summary", "", "Existing summary workbook (required)")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output workbook path (default: FY<yy>_Foundation_Summary_Updated_<timestamp>.xlsx)")
	_ = Cmd.MarkFlagRequired("ledger")
	_ = Cmd.MarkFlagRequired("donor")
	_ = Cmd.MarkFlagRequired("summary")
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	log := root.Log.WithField("command", "reconcile")

	ledger, err := workbook.LoadFile(ledgerPath)
	if err != nil {
		return err
	}
	donor, err := workbook.LoadFile(donorPath)
	if err != nil {
		return err
	}
	summary, err := workbook.LoadFile(summaryPath)
	if err != nil {
		return err
	}

	r := reconciler.New(root.Gateway, nil, log, nil)
	wb, result := r.Run(reconciler.Inputs{
		Ledger: ledger, Donor: donor, Summary: summary,
		LedgerPath: ledgerPath, DonorPath: donorPath, SummaryPath: summaryPath,
		LedgerSheet: root.Cfg.Ledger.Sheet,
	})

	for _, w := range result.Warnings {
		log.Warn(w)
	}
	if wb == nil {
		for _, e := range result.Errors {
			log.Error(e)
		}
		return fmt.Errorf("reconciliation aborted, no artifact produced")
	}

	out := outputPath
	if out == "" {
		out = defaultOutputPath(time.Now())
	}
	if err := workbook.SaveFile(wb, out); err != nil {
		return fmt.Errorf("writing output workbook: %w", err)
	}

	printResult(cmd, result, out)

	// Persist newly discovered entries. The workbook artifact above stays
	// valid either way; a commit failure just means the store lags it.
	if len(result.NewEntries) > 0 {
		if err := root.Gateway.Commit(result.NewEntries); err != nil {
			log.WithError(err).Error("workbook written, but new entries were not persisted")
			return fmt.Errorf("workbook written to %s, but persisting %d new entries failed: %w",
				out, len(result.NewEntries), err)
		}
		log.Info("persisted new entries", logging.F(logging.FieldCount, len(result.NewEntries)))
	}

	return nil
}

func defaultOutputPath(now time.Time) string {
	name := fmt.Sprintf("FY%s_Foundation_Summary_Updated_%s.xlsx",
		dateutils.FiscalYearLabel(now), now.Format("20060102_150405"))
	return filepath.Join(root.Cfg.Output.Directory, name)
}

func printResult(cmd *cobra.Command, result *models.RunResult, out string) {
	cmd.Printf("Updated workbook written to %s\n", out)
	cmd.Printf("  processed:            %d\n", result.Processed)
	cmd.Printf("  needs review:         %d\n", result.NeedsReview)
	cmd.Printf("  duplicates (sheet):   %d\n", result.DuplicatesSheet)
	cmd.Printf("  duplicates (store):   %d\n", result.DuplicatesStore)
	cmd.Printf("  skipped out of range: %d\n", result.SkippedOutOfRange)
}
