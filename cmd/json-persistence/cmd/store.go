package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oshokin/json-persistence/internal/codec"
	domain "github.com/oshokin/json-persistence/internal/domain/item"
)

// newStoreCommand stores one item state.
func newStoreCommand(opts *rootOptions) *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "store <item> <type> <state>",
		Short: "Store the state of an item.",
		Long: `Replaces the stored record of an item and prints it.

The type is one of DateTimeType, DecimalType, HSBType, OnOffType,
OpenClosedType, PercentType, UnDefType or StringType.`,
		Example: `  json-persistence store Living_Temperature DecimalType 21.5
  json-persistence store Hall_Light OnOffType ON --alias hall`,
		Args: cobra.ExactArgs(3), //nolint:mnd // item, type and state.
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := parseState(args[1], args[2])
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if opts.remote() {
				client, err := opts.dial(ctx)
				if err != nil {
					return err
				}

				defer func() {
					_ = client.Close()
				}()

				sample, err := client.Store(ctx, args[0], alias, state)
				if err != nil {
					return err
				}

				return printSample(cmd.OutOrStdout(), sample)
			}

			svc, _, err := opts.openLocal(ctx)
			if err != nil {
				return err
			}

			record, err := svc.StoreAlias(ctx, args[0], alias, state)
			if err != nil {
				return err
			}

			return printRecord(cmd.OutOrStdout(), record)
		},
	}

	cmd.Flags().StringVarP(&alias, "alias", "a", "", "store under this file name instead of the item name")

	return cmd
}

// parseState parses text as a state of the given type tag.
//
//nolint:ireturn // State is a closed union.
func parseState(tag, text string) (domain.State, error) {
	kind, ok := domain.KindFromTag(tag)
	if !ok {
		return nil, fmt.Errorf("unknown state type %q", tag)
	}

	return domain.Parse(kind, text)
}

// printSample writes a sample in the on-disk record format.
func printSample(w io.Writer, sample domain.HistoricItem) error {
	return printRecord(w, domain.Record{
		Name:      sample.Name,
		State:     sample.State,
		Timestamp: sample.Timestamp,
	})
}

// printRecord writes a record in the on-disk record format.
func printRecord(w io.Writer, record domain.Record) error {
	data, err := codec.Encode(record)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
