package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/oshokin/json-persistence/internal/domain/item"
)

// newQueryCommand prints the stored record of an item.
func newQueryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <item>",
		Short: "Print the stored state of an item.",
		Long:  "Prints the stored record of an item, or nothing when the item was never stored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				samples []domain.HistoricItem
				err     error
			)

			if opts.remote() {
				client, dialErr := opts.dial(ctx)
				if dialErr != nil {
					return dialErr
				}

				defer func() {
					_ = client.Close()
				}()

				samples, err = client.Query(ctx, args[0])
			} else {
				svc, _, openErr := opts.openLocal(ctx)
				if openErr != nil {
					return openErr
				}

				samples, err = svc.Query(ctx, domain.FilterCriteria{ItemName: args[0]})
			}

			if err != nil {
				return err
			}

			for _, sample := range samples {
				if err := printSample(cmd.OutOrStdout(), sample); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
