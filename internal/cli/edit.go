package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/wire"
)

// EditCmd returns the edit command
func EditCmd() *cobra.Command {
	var prev string

	cmd := &cobra.Command{
		Use:   "edit <view> <row> <col> <value>",
		Short: "Apply one cell edit through the validation pipeline",
		Long: `Apply a single cell edit. Rows and columns are 0-based; data rows
start after the 3 header rows. Pass an empty value to clear the cell.

The edit is validated against the active week window, the rank sequence,
and the user's attestation; rejected edits are reverted and explained.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("failed to parse row: %w", err)
			}
			col, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("failed to parse col: %w", err)
			}

			outcome, err := wire.EditService().ApplyEdit(actorContext(), primary.EditRequest{
				View:      args[0],
				Row:       row,
				Col:       col,
				NewValue:  args[3],
				PrevValue: prev,
			})
			if err != nil {
				return err
			}

			switch outcome.Status {
			case primary.EditIgnored:
				fmt.Println("- Edit ignored (structural view or header region)")
			case primary.EditAccepted:
				fmt.Printf("✓ Edit accepted at column %d\n", outcome.TargetCol)
			case primary.EditAcceptedNonRank:
				fmt.Println("✓ Edit accepted (non-rank column)")
			case primary.EditRelocated:
				fmt.Printf("✓ Edit relocated to column %d\n", outcome.TargetCol)
			default:
				fmt.Printf("✗ Edit rejected (%s): %s\n", outcome.Status, outcome.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prev, "prev", "", "the cell's value before the edit")
	return cmd
}
