package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskflow/internal/board"
	"taskflow/internal/config"
	"taskflow/internal/format"
	"taskflow/internal/logging"
	"taskflow/internal/store"
	"taskflow/internal/tui"
)

// FirstBoardName is created when the interactive board starts with no boards at all.
const FirstBoardName = "My First Board"

type App struct {
	ConfigPath string
	DataPath   string
	Backend    string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg     config.Config
	log     logging.Logger
	logFile io.Closer
	gw      store.Gateway
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskflow",
		Short:        "Kanban boards in the terminal, with drag and drop",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  taskflow

  # Scriptable commands
  taskflow boards create Sprint
  taskflow lists create Todo
  taskflow cards add Todo "Write spec"
  taskflow boards show --format text

  # Replay a recorded pointer gesture through the drag engine
  taskflow gesture drag.jsonl
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive board.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logFile != nil {
			return app.logFile.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default $TASKFLOW_CONFIG or ~/.config/taskflow/config.toml)")
	cmd.PersistentFlags().StringVar(&app.DataPath, "data", "", "Board document path (overrides storage.path)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend: file|sqlite (overrides storage.backend)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides log.level)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKFLOW_FORMAT", "json"), "Output format (json|text)")

	cmd.AddCommand(newBoardsCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newCardsCmd(app))
	cmd.AddCommand(newGestureCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup loads config, applies flag overrides and opens the gateway.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if v := strings.TrimSpace(app.DataPath); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(app.Backend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Log.Level)
	logCfg.JSON = cfg.Log.JSON
	logCfg.Output = cmd.ErrOrStderr()
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return writeErr(cmd, fmt.Errorf("open log file: %w", err))
		}
		app.logFile = f
		logCfg.Output = f
	}
	app.log = logging.New(logCfg)

	gw, err := store.Open(store.Options{
		Backend:     cfg.Storage.Backend,
		Path:        cfg.Storage.Path,
		LockTimeout: cfg.Storage.LockTimeout,
		Logger:      app.log,
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	app.gw = gw
	return nil
}

func (app *App) backups() *store.Backups {
	return store.NewBackups(app.cfg.Backup.Dir, app.cfg.Backup.Keep)
}

// loadStore always yields a usable store; an unreadable document is logged and replaced by an
// empty one.
func (app *App) loadStore() *board.Store {
	return store.LoadOrEmpty(app.gw, app.log)
}

func (app *App) save(st *board.Store) error {
	if err := app.gw.Save(st); err != nil {
		return fmt.Errorf("save %s: %w", app.gw.Describe(), err)
	}
	return nil
}

// boardArg resolves the --board flag, defaulting to the current board.
func boardArg(st *board.Store, flag string) (string, error) {
	if name := strings.TrimSpace(flag); name != "" {
		if _, ok := st.Board(name); !ok {
			return "", board.NotFoundError{Kind: "board", Name: name, Index: -1}
		}
		return name, nil
	}
	if cur := st.Current(); cur != "" {
		return cur, nil
	}
	return "", errNoBoard
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, loadErr := app.gw.Load()
	if loadErr != nil {
		app.log.Warn("starting from an empty board store", "source", app.gw.Describe(), "err", loadErr)
	}
	if st == nil {
		st = board.New()
	}
	if app.cfg.Backup.OnStart && st.Len() > 0 {
		if info, err := app.backups().Create(st); err != nil {
			app.log.Warn("backup on start failed", "err", err)
		} else {
			app.log.Info("backup created", "path", info.Path)
		}
	}
	// A failed load leaves the stored document in place; the first board is not saved over it.
	if st.Bootstrap(FirstBoardName) && loadErr == nil {
		if err := app.save(st); err != nil {
			app.log.Warn("save failed", "err", err)
		}
	}

	// The terminal belongs to the board now; only a configured log file keeps logging.
	log := logging.Nop()
	if app.logFile != nil {
		log = app.log
	}
	app.gw = store.WithLogger(app.gw, log)

	return tui.Run(tui.RunOptions{
		Options: tui.Options{
			Store:   st,
			Saver:   app.gw,
			Metrics: app.cfg.CellMetrics(),
			Logger:  log,
		},
		AltScreen: app.cfg.UI.AltScreen,
		Color:     app.cfg.UI.Color,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes data in the JSON envelope, or data alone in text mode.
func writeOut(cmd *cobra.Command, app *App, data any, hints ...string) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), format.Text) {
		return format.WriteText(cmd.OutOrStdout(), data)
	}
	env := map[string]any{"data": data}
	if len(hints) > 0 {
		env["_hints"] = hints
	}
	return format.Write(cmd.OutOrStdout(), env, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), describe(err))
	return err
}
