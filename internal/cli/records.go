package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thingstore/pkg/store"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// readInput returns args[i] when present and not "-", otherwise stdin.
func readInput(cmd *cobra.Command, args []string, i int) ([]byte, error) {
	if len(args) > i && args[i] != "-" {
		return []byte(args[i]), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, types.NewIOError(fmt.Errorf("read stdin: %w", err))
	}
	return data, nil
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <table> [json|-]",
		Short: "Create a record",
		Long: `Create stores a new record from a JSON object and prints it with its id.
The object is read from stdin when omitted or "-".

Example:
  thingstore create user '{"name":"alice","email":"alice@example.com"}'
  echo '{"title":"ship it"}' | thingstore create task`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := lookupEntity(args[0])
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args, 1)
			if err != nil {
				return err
			}
			created, err := ops.create(a.store, data)
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), created)
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Get a record by id",
		Long: `Get prints the record with the given id. The id is either the full
"table:key" form or the bare key.

Example:
  thingstore get user alice
  thingstore get user user:alice`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := lookupEntity(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[0], args[1])
			if err != nil {
				return err
			}
			got, err := ops.get(a.store, id)
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), got)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var ack bool
	cmd := &cobra.Command{
		Use:   "update <table> <id> [json|-]",
		Short: "Merge changes into a record",
		Long: `Update merges the fields of a JSON object into a record and prints the
updated record. With --ack only the changed fields and the id are printed.

Example:
  thingstore update user alice '{"age":35}'
  thingstore update task bootstrap '{"done":true}' --ack`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := lookupEntity(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[0], args[1])
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args, 2)
			if err != nil {
				return err
			}

			var out any
			if ack {
				out, err = ops.patch(a.store, id, data)
			} else {
				out, err = ops.update(a.store, id, data)
			}
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&ack, "ack", false, "print only the patched fields")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lookupEntity(args[0]); err != nil {
				return err
			}
			id, err := parseID(args[0], args[1])
			if err != nil {
				return err
			}
			if err := store.Delete(a.store, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		limit    int64
		offset   int64
		orderBys []string
	)
	cmd := &cobra.Command{
		Use:   "list <table> [filter...]",
		Short: "List records matching a filter",
		Long: `List prints the records of a table matching the filter terms.

Terms are ANDed together; the word "or" starts another group. A term is
field=value, field!=value, field<value, field<=value, field>value,
field>=value, or field:$op=value where $op is any of $eq, $not, $lt, $lte,
$gt, $gte, $in, $notIn, $contains, $notContains, $startsWith, $endsWith,
$null. Values are parsed as JSON when possible.

Example:
  thingstore list user
  thingstore list user 'age>=30' --order-by '!age'
  thingstore list task done=false or 'labels:$contains=ops' --limit 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := lookupEntity(args[0])
			if err != nil {
				return err
			}
			filter, err := parseFilter(args[1:])
			if err != nil {
				return err
			}
			opts := types.NewListOptions(limit, offset, orderBys...)

			list, err := ops.list(a.store, filter, opts)
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 0, "maximum number of records (0 for no limit)")
	cmd.Flags().Int64Var(&offset, "offset", 0, "number of records to skip")
	cmd.Flags().StringSliceVar(&orderBys, "order-by", nil, "sort field, prefix with ! for descending (repeatable)")
	return cmd
}
