package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tally/internal/wire"
)

// AttestCmd returns the attest command
func AttestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attest [identity]",
		Short: "Confirm the identity used to attribute your edits",
		Long: `Store the verified identity for the invoking user. Rank edits are
rejected until an identity is confirmed. With no argument, show the
currently stored identity.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := actorContext()

			if len(args) == 0 {
				identity, err := wire.EditService().Attestation(ctx)
				if err != nil {
					return err
				}
				if identity == "" {
					fmt.Println("No identity confirmed. Run `tally attest \"Your Name\"`.")
					return nil
				}
				fmt.Printf("Confirmed identity: %s\n", identity)
				return nil
			}

			if err := wire.EditService().Attest(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Identity confirmed: %s\n", args[0])
			return nil
		},
	}
}
