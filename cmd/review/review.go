// Package review handles the manual review queue commands
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clubrecon/cmd/root"
	"clubrecon/internal/matcher"
	"clubrecon/internal/merger"
	"clubrecon/internal/reviewer"
	"clubrecon/internal/workbook"
)

var (
	entryID      int64
	clubArg      string
	workbookPath string
)

// Cmd represents the review command
var Cmd = &cobra.Command{
	Use:   "review",
	Short: "List or resolve entries awaiting club assignment",
	Long: `Without flags, review lists every stored entry awaiting club assignment,
together with the closest club name suggestions. With --entry and --club it
assigns the entry to the club: the row moves from the Needs Review sheet to
the club's sheet, the individual summary is updated and the fiscal-year
totals are recalculated. The workbook is rewritten only when every step,
including persistence, succeeds.`,
	RunE: reviewFunc,
}

func init() {
	Cmd.Flags().Int64Var(&entryID, "entry", 0, "Entry id to assign")
	Cmd.Flags().StringVar(&clubArg, "club", "", "Club id or name to assign the entry to")
	Cmd.Flags().StringVar(&workbookPath, "workbook", "", "Summary workbook to replay the assignment into")
}

func reviewFunc(cmd *cobra.Command, args []string) error {
	if entryID == 0 {
		return listPending(cmd)
	}
	return assignEntry(cmd)
}

// listPending prints the review queue with fuzzy club suggestions from the
// known club universe.
func listPending(cmd *cobra.Command) error {
	pending, err := root.Gateway.NeedsReview()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("No entries awaiting review.")
		return nil
	}

	universe, err := clubUniverse()
	if err != nil {
		return err
	}
	var suggester *matcher.Suggester
	if len(universe) > 0 {
		suggester = matcher.NewSuggester(universe)
	}

	cmd.Printf("%d entries awaiting review:\n", len(pending))
	for i := range pending {
		e := &pending[i]
		cmd.Printf("  #%d  %s  %s  %s  net %s  designation %q\n",
			e.ID, e.Date.Format(time.DateOnly), e.JournalRef,
			e.Description, e.NetAmount.StringFixed(2), e.Designation)
		if suggester != nil {
			if suggestions := suggester.Suggest(e.Designation, root.Cfg.Matching.SuggestionCount); len(suggestions) > 0 {
				cmd.Printf("      suggestions: %s\n", strings.Join(suggestions, ", "))
			}
		}
	}
	cmd.Println("Assign with: clubrecon review --entry <id> --club <name> --workbook <path>")
	return nil
}

// assignEntry performs the scoped replay for one entry and rewrites the
// workbook in place on success.
func assignEntry(cmd *cobra.Command) error {
	if clubArg == "" || workbookPath == "" {
		return fmt.Errorf("--club and --workbook are required with --entry")
	}
	log := root.Log.WithField("command", "review")

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

	if err := reviewer.New(root.Gateway, m, log, nil).Assign(prepared, entryID, club); err != nil {
		return err
	}
	m.Finish(prepared)

	if err := workbook.SaveFile(prepared.Workbook, workbookPath); err != nil {
		return fmt.Errorf("entry %d assigned, but rewriting %s failed: %w", entryID, workbookPath, err)
	}
	cmd.Printf("Entry %d assigned to %s; workbook %s updated.\n", entryID, club.Name, workbookPath)
	return nil
}

// clubUniverse merges the club file with the summary workbook's club list
// when a workbook was given.
func clubUniverse() ([]string, error) {
	clubs, err := root.Clubs.Load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(clubs))
	names := make([]string, 0, len(clubs))
	for _, c := range clubs {
		if !seen[strings.ToLower(c.Name)] {
			seen[strings.ToLower(c.Name)] = true
			names = append(names, c.Name)
		}
	}
	if workbookPath != "" {
		wb, err := workbook.LoadFile(workbookPath)
		if err != nil {
			return nil, err
		}
		if prepared, err := merger.New(root.Log).Prepare(wb, workbookPath); err == nil {
			for _, name := range prepared.Clubs {
				if !seen[strings.ToLower(name)] {
					seen[strings.ToLower(name)] = true
					names = append(names, name)
				}
			}
		}
	}
	return names, nil
}
