package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tally/internal/wire"
)

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	var limit int
	var prune bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the diagnostic record",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := actorContext()

			if prune {
				removed, err := wire.LogService().Prune(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Pruned %d entries\n", removed)
				return nil
			}

			entries, err := wire.LogService().ListLogs(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No log entries.")
				return nil
			}
			for _, e := range entries {
				actor := e.Actor
				if actor == "" {
					actor = "-"
				}
				fmt.Printf("%s  [%s]  %s  %s\n", e.CreatedAt, e.Category, actor, e.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	cmd.Flags().BoolVar(&prune, "prune", false, "trim the record to the configured maximum")
	return cmd
}
