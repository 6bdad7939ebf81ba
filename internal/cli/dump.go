package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <table> <file>",
		Short: "Export a table to a JSONL file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lookupEntity(args[0]); err != nil {
				return err
			}
			n, err := a.store.Datastore().Export(a.store.Session(), args[0], args[1])
			if err != nil {
				return types.Lift(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", n, args[1])
			return nil
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Import records from a JSONL file",
		Long: `Load stores every record of a JSONL file written by dump. Records with
an existing id are replaced; lines without a valid id are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.Datastore().Import(a.store.Session(), args[0])
			if err != nil {
				return types.Lift(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records from %s\n", n, args[0])
			return nil
		},
	}
}
