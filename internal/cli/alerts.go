package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tally/internal/wire"
)

// AlertsCmd returns the alerts command
func AlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Dispatch notifications for unalerted terminal-rank events",
		Long: `Scan the ledger for terminal-rank events that have not been alerted,
send one notification per event whose week is still the origin view's
active week, and stamp each attempted event so it is never revisited.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := wire.AlertService().Scan(actorContext())
			if err != nil {
				return err
			}

			fmt.Printf("Scanned %d events, %d qualified, %d sent\n",
				outcome.Scanned, outcome.Qualified, outcome.Sent)
			if outcome.NoRecipients > 0 {
				fmt.Printf("- %d events marked with no recipients\n", outcome.NoRecipients)
			}
			if outcome.Faults > 0 {
				fmt.Printf("✗ %d dispatch faults (see `tally log`)\n", outcome.Faults)
			}
			return nil
		},
	}
}
