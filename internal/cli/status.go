package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tally/internal/app"
	"github.com/example/tally/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger and configuration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := actorContext()
			cfg := wire.Cfg()

			fmt.Println("Tally Status")
			fmt.Println()

			teams, err := wire.Directory().ListTeams(ctx)
			if err != nil {
				return err
			}
			if len(teams) == 0 {
				fmt.Println("Teams: none (run `tally import`)")
			}
			for _, team := range teams {
				last, err := wire.State().GetDoc(ctx, app.SyncStateKey(team))
				if err != nil {
					return err
				}
				if last == "" {
					last = "never"
				}
				fmt.Printf("Team %s: last synced %s\n", color.New(color.FgCyan).Sprint(team), last)
			}
			fmt.Println()

			stats, err := wire.LedgerService().Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Ledger: %d events", stats.Events)
			if stats.Unalerted > 0 {
				pending := color.New(color.FgYellow).Sprintf("%d pending alerts", stats.Unalerted)
				fmt.Printf(" (%s)", pending)
			}
			fmt.Println()

			identity, err := wire.EditService().Attestation(ctx)
			if err != nil {
				return err
			}
			if identity == "" {
				fmt.Println("Identity: not confirmed (run `tally attest`)")
			} else {
				fmt.Printf("Identity: %s\n", identity)
			}

			fmt.Printf("Alert template: %s\n", cfg.AlertTemplate)
			if cfg.SendgridAPIKey == "" {
				fmt.Println("Delivery: console (no API key configured)")
			} else {
				fmt.Printf("Delivery: sendgrid from %s\n", cfg.FromEmail)
			}
			return nil
		},
	}
}
