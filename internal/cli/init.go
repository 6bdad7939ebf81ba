package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	var withSeed bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize thingstore storage",
		Long: `Init creates the configuration and data directories, writes a default
config.yaml when none exists and creates the database. With --seed the
development fixture is loaded as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if withSeed {
				if err := runSeed(a, out, ""); err != nil {
					return err
				}
			}

			where := a.store.Datastore().Path()
			if where == "" {
				where = "in-memory database"
			}
			fmt.Fprintf(out, "thingstore initialized (config: %s, data: %s)\n", a.cfg.ConfigDir, where)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "load the development fixture")
	return cmd
}
