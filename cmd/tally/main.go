package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tally/internal/cli"
	"github.com/example/tally/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Tally - team infraction tracking over a shared ledger",
		Version: version.String(),
		Long: `Tally maintains per-team tabular views of student infractions, derives
a canonical deduplicated event ledger from them, and dispatches
notifications when a student reaches the terminal offense level.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.SyncCmd())
	rootCmd.AddCommand(cli.EditCmd())
	rootCmd.AddCommand(cli.AttestCmd())
	rootCmd.AddCommand(cli.ReconcileCmd())
	rootCmd.AddCommand(cli.AlertsCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.LogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
