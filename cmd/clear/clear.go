// Package clear handles resetting the persisted reconciliation state
package clear

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clubrecon/cmd/root"
	"clubrecon/internal/logging"
)

var keepArtifacts bool

// Cmd represents the clear command
var Cmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the entry store and remove generated workbook artifacts",
	Long: `Clear removes every persisted reconciled entry and deletes the updated
summary workbooks previous runs wrote to the output directory. Input
spreadsheets and the club file are never touched.`,
	RunE: clearFunc,
}

func init() {
	Cmd.Flags().BoolVar(&keepArtifacts, "keep-artifacts", false, "Clear the store but keep generated workbooks")
}

func clearFunc(cmd *cobra.Command, args []string) error {
	log := root.Log.WithField("command", "clear")

	if err := root.Gateway.Clear(); err != nil {
		return err
	}
	cmd.Println("Entry store cleared.")

	if keepArtifacts {
		return nil
	}

	pattern := filepath.Join(root.Cfg.Output.Directory, "FY*_Foundation_Summary_Updated_*.xlsx")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("listing artifacts: %w", err)
	}
	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warn("could not remove artifact", logging.F(logging.FieldFile, path))
			continue
		}
		removed++
	}
	cmd.Printf("Removed %d workbook artifacts.\n", removed)
	return nil
}
