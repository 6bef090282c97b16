package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/lasso/internal/adapters/server"
	"github.com/evanschultz/lasso/internal/adapters/shortcut"
	"github.com/evanschultz/lasso/internal/adapters/storage/sqlite"
	"github.com/evanschultz/lasso/internal/app"
	"github.com/evanschultz/lasso/internal/config"
	"github.com/evanschultz/lasso/internal/domain"
	"github.com/evanschultz/lasso/internal/platform"
	"github.com/evanschultz/lasso/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveRunner starts the HTTP and MCP transports.
var serveRunner = server.Run

// main handles main.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes the command tree for args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// newRootCommand builds the lasso command tree. Running it bare opens the TUI.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{appName: platform.DefaultAppName, devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("LASSO_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("LASSO_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	cmd := &cobra.Command{
		Use:   "lasso",
		Short: "Drag-to-select over a grid of catalog items.",
		Long: "lasso lays out catalog items as a terminal grid and selects them with clicks,\n" +
			"rubber-band drags and modifier shortcuts. Run without a command to open the grid.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	addPaths(cmd, opts)
	addItems(cmd, opts)
	addServe(cmd, opts)
	addVersion(cmd)
	return cmd
}

// runtimeEnv is the resolved configuration for one command run.
type runtimeEnv struct {
	appName string
	devMode bool
	paths   platform.Paths
	cfg     config.Config
	logger  *runtimeLogger
}

// resolve loads paths, config and the runtime logger.
func (o *rootOptions) resolve(stderr io.Writer) (*runtimeEnv, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
	if err != nil {
		return nil, err
	}

	envConfig, envDB := platform.EnvOverrides(os.Getenv)
	configPath := strings.TrimSpace(o.configPath)
	if configPath == "" {
		configPath = envConfig
	}
	dbPath := strings.TrimSpace(o.dbPath)
	if dbPath == "" {
		dbPath = envDB
	}
	dbOverridden := dbPath != ""
	paths = paths.WithOverrides(configPath, dbPath)

	cfg, err := config.Load(paths.ConfigPath, config.Default(paths.DBPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", paths.ConfigPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = paths.DBPath
	}

	logger, err := newRuntimeLogger(stderr, o.appName, o.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	logger.Debug("runtime paths resolved", "config_path", paths.ConfigPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Debug("dev file logging enabled", "path", devPath)
	}
	return &runtimeEnv{
		appName: o.appName,
		devMode: o.devMode,
		paths:   paths,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// close releases the logger, reporting failures only when the console is live.
func (e *runtimeEnv) close(stderr io.Writer) {
	if err := e.logger.Close(); err != nil && e.logger.ConsoleEnabled() {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// openCatalog opens the sqlite catalog. The returned func closes it.
func (e *runtimeEnv) openCatalog() (*app.Catalog, func(), error) {
	e.logger.Info("opening sqlite repository", "db_path", e.cfg.Database.Path)
	repo, err := sqlite.Open(e.cfg.Database.Path)
	if err != nil {
		e.logger.Error("sqlite open failed", "db_path", e.cfg.Database.Path, "err", err)
		return nil, nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	closeRepo := func() {
		if err := repo.Close(); err != nil {
			e.logger.Warn("sqlite close failed", "db_path", e.cfg.Database.Path, "err", err)
		}
	}
	return app.NewCatalog(repo, uuid.NewString, nil), closeRepo, nil
}

// engineOptions maps selection config onto engine options.
func (e *runtimeEnv) engineOptions() ([]app.EngineOption, error) {
	mode, err := domain.ParseMode(e.cfg.Selection.Mode)
	if err != nil {
		return nil, err
	}
	return []app.EngineOption{
		app.WithLogger(e.logger),
		app.WithInitialMode(mode),
		app.WithOptions(app.Options{
			SelectOnDrag:       e.cfg.Selection.SelectOnDrag,
			SelectWithShortcut: e.cfg.Selection.SelectWithShortcut,
		}),
	}, nil
}

// shortcutMapper builds the modifier mapper from configured bindings.
func (e *runtimeEnv) shortcutMapper() *shortcut.Mapper {
	return shortcut.New(shortcut.Bindings{
		Add:          e.cfg.Shortcuts.Add,
		Remove:       e.cfg.Shortcuts.Remove,
		ToggleSingle: e.cfg.Shortcuts.ToggleSingle,
		Extend:       e.cfg.Shortcuts.Extend,
		Disable:      e.cfg.Shortcuts.Disable,
	})
}

// runTUI opens the interactive grid.
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	env, err := opts.resolve(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.close(cmd.ErrOrStderr())
	// Runtime logs stay in the dev-file sink while the grid owns the terminal.
	env.logger.SetConsoleEnabled(false)

	catalog, closeRepo, err := env.openCatalog()
	if err != nil {
		return err
	}
	defer closeRepo()
	engineOpts, err := env.engineOptions()
	if err != nil {
		return err
	}

	layout := env.cfg.Layout
	m := tui.NewModel(
		catalog,
		tui.WithGridConfig(tui.GridConfig{
			Columns:    layout.Columns,
			CellWidth:  layout.CellWidth,
			CellHeight: layout.CellHeight,
			GapX:       layout.GapX,
			GapY:       layout.GapY,
		}),
		tui.WithModifierMapper(env.shortcutMapper()),
		tui.WithEngineOptions(engineOpts...),
	)
	defer m.Close()

	env.logger.Info("command flow start", "command", "tui", "mode", env.cfg.Selection.Mode)
	if _, err := programFactory(m).Run(); err != nil {
		env.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	env.logger.Info("command flow complete", "command", "tui")
	return nil
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
