package cmd

import (
	"context"

	"github.com/spf13/cobra"

	domain "github.com/oshokin/json-persistence/internal/domain/item"
	"github.com/oshokin/json-persistence/internal/logger"
	"github.com/oshokin/json-persistence/internal/service/watcher"
)

// newWatchCommand prints every record written to the root directory.
func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print item records as they are written.",
		Long:  "Follows the root directory and prints each record stored by any writer until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.remote() {
				return errLocalOnly
			}

			ctx := logger.WithName(cmd.Context(), "watch")

			_, repository, err := opts.openLocal(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			w, err := watcher.New(repository.Root(), repository, func(ctx context.Context, sample domain.HistoricItem) {
				if err := printSample(out, sample); err != nil {
					logger.WarnKV(ctx, "Failed printing record", "item", sample.Name, "error", err)
				}
			})
			if err != nil {
				return err
			}

			return w.Run(ctx)
		},
	}
}
