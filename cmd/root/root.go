// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clubrecon/internal/config"
	"clubrecon/internal/logging"
	"clubrecon/internal/models"
	"clubrecon/internal/store"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Gateway is the shared entry store
	Gateway store.Gateway

	// Clubs is the club reference data store
	Clubs *store.ClubStore

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "clubrecon",
		Short: "Reconcile foundation ledger exports into a per-club summary workbook.",
		Long: `clubrecon reconciles a foundation ledger export and a donor acknowledgement
export into a persisted per-club summary workbook. Transactions it cannot
match to a club land on a Needs Review sheet and can be assigned manually.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to clubrecon!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.InitializeConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
				os.Exit(1)
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			Gateway = store.NewEntryStore(cfg.Store.EntriesFile, Log)
			Clubs = store.NewClubStore(cfg.Store.ClubsFile)
		},
	}
)

// Init initializes the root command flags
func Init() {
	// Subcommands define their own flags; nothing persistent yet.
}

// ResolveClub accepts a numeric club id or a club name. Names are matched
// case-insensitively first against the club file, then against the given
// universe (typically the summary workbook's club list).
func ResolveClub(arg string, universe []string) (models.Club, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		clubs, err := Clubs.Load()
		if err != nil {
			return models.Club{}, err
		}
		for _, c := range clubs {
			if c.ID == id {
				return c, nil
			}
		}
		return models.Club{}, fmt.Errorf("no club with id %d", id)
	}

	club, err := Clubs.FindByName(arg)
	if err != nil {
		return models.Club{}, err
	}
	if club != nil {
		return *club, nil
	}
	for _, name := range universe {
		if strings.EqualFold(name, arg) {
			return models.Club{Name: name, Active: true}, nil
		}
	}
	return models.Club{}, fmt.Errorf("unknown club %q", arg)
}
