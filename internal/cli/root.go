// Package cli implements the thingstore command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/thingstore/internal/logging"
	"github.com/mesh-intelligence/thingstore/internal/paths"
	"github.com/mesh-intelligence/thingstore/pkg/store"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

var logger = logging.Logger("cli")

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by the commands of one invocation. The store is
// opened once before any command runs and closed after it returns.
type app struct {
	flags rootFlags
	cfg   settings
	store *store.Store
}

// skipStore lists commands that run without opening the store.
var skipStore = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the top-level "thingstore" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "thingstore",
		Short: "A typed document store",
		Long: "thingstore stores users and tasks as schema-less records\n" +
			"behind a typed create, get, update, delete and list interface.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipStore[cmd.Name()] {
				return nil
			}
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newCreateCmd(a),
		newGetCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newSeedCmd(a),
		newGreetCmd(a),
		newDumpCmd(a),
		newLoadCmd(a),
	)

	return root
}

// open resolves directories, loads configuration, sets up logging and
// opens the store.
func (a *app) open(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return types.NewIOError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadSettings(configDir)
	if err != nil {
		return err
	}
	if err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("logging settings: %w", err)
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir)
	if err != nil {
		return types.NewIOError(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg.ConfigDir = configDir
	cfg.DataDir = dataDir

	s, err := store.Open(cfg.storeConfig())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.store = s

	logger.Debug("store ready", "config_dir", configDir, "data_dir", dataDir, "backend", cfg.Backend)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Execute runs the root command with os.Args and returns the process exit
// code. Errors are printed to stderr in their taxonomy form.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// run executes one invocation. The store is closed even when the command
// fails, since cobra skips post-run hooks after an error.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// exitCode maps an error to the process exit code. Errors outside the
// taxonomy come from argument parsing and count as user errors.
func exitCode(err error) int {
	switch types.KindOf(err) {
	case 0, types.KindValueNotOfType, types.KindPropertyNotFound,
		types.KindOperatorNotSupported, types.KindQuery, types.KindSerde:
		return exitUserError
	default:
		return exitSysError
	}
}
