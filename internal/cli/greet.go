package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thingstore/pkg/model"
	"github.com/mesh-intelligence/thingstore/pkg/store"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

func newGreetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "greet <name>",
		Short: "Greet someone, by user record when one matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			users, err := store.List[model.User](a.store, types.Eq(model.UserName, name), types.NewListOptions(1, 0))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintf(out, "Hello, %s!\n", name)
				return nil
			}
			fmt.Fprintf(out, "Hello, %s! You are %s.\n", name, users[0].ID)
			return nil
		},
	}
}
