package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/wire"
)

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	var all bool
	var step bool

	cmd := &cobra.Command{
		Use:   "sync [team]",
		Short: "Rebuild team views from the directory and the ledger",
		Long: `Rebuild one team view (or all of them) from the template header, the
subject directory, and the event ledger. Each team syncs at most once per
calendar day; a second run is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := actorContext()

			switch {
			case step:
				outcome, err := wire.RosterService().SyncStep(ctx)
				if err != nil {
					return err
				}
				if outcome == nil {
					fmt.Println("All teams are current.")
					return nil
				}
				printSyncOutcome(outcome)
				return nil

			case all:
				outcomes, err := wire.RosterService().SyncAll(ctx)
				if err != nil {
					return err
				}
				for _, o := range outcomes {
					printSyncOutcome(o)
				}
				return nil

			case len(args) == 1:
				outcome, err := wire.RosterService().SyncTeam(ctx, args[0])
				if err != nil {
					return err
				}
				printSyncOutcome(outcome)
				return nil

			default:
				return fmt.Errorf("specify a team, --all, or --step")
			}
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "sync every team")
	cmd.Flags().BoolVar(&step, "step", false, "sync exactly one team not yet synced today")
	return cmd
}

func printSyncOutcome(o *primary.SyncOutcome) {
	team := color.New(color.FgCyan).Sprint(o.TeamID)
	switch {
	case o.Fault != "":
		fmt.Printf("✗ %s: %s\n", team, o.Fault)
	case o.Skipped:
		fmt.Printf("- %s: already synced today\n", team)
	default:
		fmt.Printf("✓ %s: %d subjects\n", team, o.SubjectCount)
	}
}
