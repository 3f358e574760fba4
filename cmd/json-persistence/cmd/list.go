package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListCommand prints the names of stored items.
func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored item files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.remote() {
				return errLocalOnly
			}

			ctx := cmd.Context()

			svc, _, err := opts.openLocal(ctx)
			if err != nil {
				return err
			}

			names, err := svc.Items(ctx)
			if err != nil {
				return err
			}

			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
