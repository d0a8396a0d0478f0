package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"workboard-cli/internal/api"
	"workboard-cli/internal/dashboard"
	"workboard-cli/internal/format"
	"workboard-cli/internal/logging"
	"workboard-cli/internal/store"
	"workboard-cli/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	BaseURL    string
	PrettyJSON bool
	Format     string
	Debug      bool

	cfg     store.Config
	log     zerolog.Logger
	closers []io.Closer
	session *store.Session
}

func NewRootCmd() *cobra.Command {
	app := &App{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "workboard",
		Short:        "Companies, projects and tasks from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  workboard

  # Store a token, then script against the backend
  workboard login --token "$TOKEN"
  workboard companies list --pretty
  workboard tasks create --project 66f0c2 --title "Write docs" --eta "2025-03-01 17:00"
`),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app)
		}),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			app.close()
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", "", "Config directory (default: $WORKBOARD_CONFIG_DIR or ~/.workboard)")
	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", "", "Backend base URL (overrides config and $WORKBOARD_BASE_URL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("WORKBOARD_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Debug logging to the log file")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newSessionCmd(app))
	cmd.AddCommand(newCompaniesCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

// setup resolves configuration in order: defaults, config.json, .env, WORKBOARD_* env, flags.
func (app *App) setup(cmd *cobra.Command) error {
	f, err := format.Validate(app.Format)
	if err != nil {
		return err
	}
	app.Format = f

	// ./.env may point WORKBOARD_CONFIG_DIR elsewhere, so it loads before the dir resolves.
	if err := store.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	dir := strings.TrimSpace(app.ConfigDir)
	if dir == "" {
		if dir, err = store.ConfigDir(); err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
	}
	app.ConfigDir = dir

	if err := store.LoadDotEnv(store.DotEnvPath(dir)); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := store.LoadConfig(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if v := strings.TrimSpace(app.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if app.Debug {
		cfg.Debug = true
	}
	app.cfg = cfg

	log, closer := logging.Setup(logging.Options{Path: cfg.ResolvedLogPath(dir), Debug: cfg.Debug})
	app.closers = append(app.closers, closer)
	app.log = log.With().Str("cmd", cmd.CommandPath()).Logger()
	app.log.Debug().Str("config_dir", dir).Str("base_url", cfg.BaseURL).Msg("config resolved")
	return nil
}

// runE releases the session database and log file once the command returns.
func (app *App) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer app.close()
		return fn(cmd, args)
	}
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i].Close()
	}
	app.closers = nil
	app.session = nil
}

func (app *App) openSession(ctx context.Context) (*store.Session, error) {
	if app.session != nil {
		return app.session, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := store.OpenSession(ctx, app.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	app.session = s
	app.closers = append(app.closers, s)
	return s, nil
}

func (app *App) apiClient(ctx context.Context) (*api.Client, *store.Session, error) {
	sess, err := app.openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	c := api.NewClient(api.Config{
		BaseURL:         app.cfg.BaseURL,
		Timeout:         app.cfg.Timeout(),
		GetRetries:      app.cfg.Retries(),
		BreakerFailures: app.cfg.BreakerFailures,
		BreakerCooldown: app.cfg.BreakerCooldown(),
		Tokens:          sess,
		Logger:          app.log,
	})
	return c, sess, nil
}

func runTUI(ctx context.Context, app *App) error {
	client, sess, err := app.apiClient(ctx)
	if err != nil {
		return err
	}
	ctrl := dashboard.New(client, dashboard.Options{
		CreatorMemberID: app.cfg.CreatorMemberID,
		Logger:          app.log,
	})
	opts := tui.Options{
		Controller: ctrl,
		Session:    sess,
		StateDir:   app.ConfigDir,
		Logger:     app.log,
	}
	if app.cfg.TUI != nil {
		opts.Theme = app.cfg.TUI.Theme
		opts.Glyphs = app.cfg.TUI.Glyphs
	}
	app.log.Info().Msg("tui started")
	return tui.Run(opts)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(cmd.ErrOrStderr(), "hint: the stored token was rejected and cleared; run `workboard login`")
	}
	return err
}
