package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tasklist/internal/app"
	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/storage"
	"tasklist/internal/ui"
	"tasklist/internal/view"
)

// runtime is what every command works against. It is opened once per
// invocation, before the command runs.
type runtime struct {
	configPath  string
	verbose     bool
	firstLaunch bool

	cfg       config.Config
	store     *storage.Store
	session   *app.Session
	logCloser io.Closer
}

func (rt *runtime) open() error {
	path := rt.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	if _, err := os.Stat(path); err != nil {
		rt.firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt.cfg = cfg

	closer, err := logging.Init(cfg.LogPath, rt.verbose)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	rt.logCloser = closer

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	rt.store = store

	session, err := app.New(store)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if mode, err := view.ParseSortMode(cfg.DefaultSort); err == nil {
		session.SetSort(mode)
	} else {
		slog.Warn("ignoring default_sort", "value", cfg.DefaultSort, "error", err)
	}
	rt.session = session
	slog.Debug("runtime opened", "config", path, "db", cfg.DBPath, "tasks", len(session.Tasks()))
	return nil
}

func (rt *runtime) close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
		rt.store = nil
	}
	if rt.logCloser != nil {
		rt.logCloser.Close()
		rt.logCloser = nil
		logging.Discard()
	}
}

func newRootCmd(rt *runtime, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "A categorized, prioritized task list",
		Long: `todo keeps a local task list with categories and priorities.

Run without a subcommand to open the interactive list.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			status := ""
			if rt.firstLaunch {
				status = "Welcome! Default config written. Press 'a' to add your first task."
			}
			return ui.Run(rt.session, rt.cfg, status)
		},
	}
	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "config file (default $TODO_CONFIG or ~/.config/tasklist/config.toml)")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(newAddCmd(rt))
	root.AddCommand(newListCmd(rt))
	root.AddCommand(newDoneCmd(rt, true))
	root.AddCommand(newDoneCmd(rt, false))
	root.AddCommand(newRemoveCmd(rt))
	root.AddCommand(newClearCmd(rt))
	root.AddCommand(newCategoryCmd(rt))
	root.AddCommand(newExportCmd(rt))
	root.AddCommand(newImportCmd(rt))
	return root
}

// Run executes the command line args and returns the command's error.
func Run(args []string, in io.Reader, out, errOut io.Writer, version string) error {
	rt := &runtime{}
	defer rt.close()

	root := newRootCmd(rt, version)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})
	return root.Execute()
}

// Execute runs the process command line and returns the exit code.
func Execute(version string) int {
	err := Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, version)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return ExitCode(err)
}
