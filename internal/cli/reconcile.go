package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tally/internal/wire"
)

// ReconcileCmd returns the reconcile command
func ReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Fold new infraction cells from all team views into the ledger",
		Long: `Scan every team view and append one canonical ledger event per new
(subject, rank, week) cell. Existing events get at most a source-value
update; running reconcile again with no cell changes writes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := wire.LedgerService().Reconcile(actorContext())
			if err != nil {
				return err
			}

			fmt.Printf("Scanned %d views: %d new events, %d value updates\n",
				outcome.Views, outcome.NewEvents, outcome.UpdatedValues)
			if outcome.Faults > 0 {
				fmt.Printf("✗ %d views skipped with faults (see `tally log`)\n", outcome.Faults)
			}
			return nil
		},
	}
}
