package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thingstore/internal/seed"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

func newSeedCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load development records",
		Long: `Seed creates the users and tasks of a YAML fixture. Records that already
exist are skipped. Without --file the built-in fixture is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(a, cmd.OutOrStdout(), file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML fixture to load instead of the built-in one")
	return cmd
}

func runSeed(a *app, out io.Writer, file string) error {
	var (
		f   seed.Fixture
		err error
	)
	if file == "" {
		f, err = seed.Default()
	} else {
		var data []byte
		if data, err = os.ReadFile(file); err != nil {
			return types.NewIOError(err)
		}
		f, err = seed.Parse(data)
	}
	if err != nil {
		return err
	}

	res, err := seed.Run(a.store, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d records (%d already present)\n", res.Created, res.Skipped)
	return nil
}
