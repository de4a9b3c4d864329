// Package cli is the cobra command tree of the togglreport binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/config"
	"github.com/sadopc/togglreport/internal/export"
	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/store"
	"github.com/sadopc/togglreport/internal/toggl"
)

// cacheRetention is how long fetched reports stay usable offline.
const cacheRetention = 180 * 24 * time.Hour

// CLI represents the command-line interface
type CLI struct {
	out     io.Writer
	errOut  io.Writer
	rootCmd *cobra.Command

	cfgPath  string
	logLevel string
	dbPath   string

	cfg    *config.Config
	logger zerolog.Logger
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Errors io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Errors == nil {
		opts.Errors = os.Stderr
	}

	cli := &CLI{
		out:    opts.Output,
		errOut: opts.Errors,
		logger: zerolog.Nop(),
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the command line. Nil args means os.Args.
func (cli *CLI) Execute(ctx context.Context, args ...string) error {
	if args != nil {
		cli.rootCmd.SetArgs(args)
	}
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "togglreport",
		Short:             "Monthly activity reports from Toggl Track shared reports",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
		RunE:              cli.runTUI,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "",
		"Path to the config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&cli.dbPath, "db", "", "Path to the SQLite database")

	cmd.AddCommand(cli.newTUICmd())
	cmd.AddCommand(cli.newReportCmd())
	cmd.AddCommand(cli.newExportCmd())
	cmd.AddCommand(cli.newLoginCmd())
	cmd.AddCommand(cli.newLogoutCmd())
	cmd.AddCommand(cli.newColumnsCmd())
	cmd.AddCommand(cli.newHistoryCmd())
	cmd.AddCommand(cli.newRelayCmd())
	cmd.AddCommand(cli.newConfigCmd())

	return cmd
}

// setup loads the config and attaches the stderr logger to the command
// context.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		return err
	}
	if cli.logLevel != "" {
		cfg.LogLevel = cli.logLevel
	}
	if cli.dbPath != "" {
		cfg.DBPath = cli.dbPath
	}
	cli.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	cli.logger = zerolog.New(zerolog.ConsoleWriter{Out: cli.errOut, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
	cmd.SetContext(cli.logger.WithContext(cmd.Context()))
	return nil
}

func (cli *CLI) openStore() (*store.Store, error) {
	path := cli.cfg.DBPath
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, err
		}
	}
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if n, err := s.PruneReports(time.Now().Add(-cacheRetention)); err != nil {
		cli.logger.Warn().Err(err).Msg("prune report cache")
	} else if n > 0 {
		cli.logger.Debug().Int64("removed", n).Msg("pruned report cache")
	}
	return s, nil
}

func (cli *CLI) newClient(creds toggl.Credentials) (*toggl.Client, error) {
	var opts []toggl.Option
	if cli.cfg.UseRelay {
		opts = append(opts, toggl.WithRelay())
	}
	return toggl.NewClient(cli.cfg.BaseURL(), creds, opts...)
}

// connect validates creds against the API. It backs the TUI login form.
func (cli *CLI) connect(ctx context.Context, creds toggl.Credentials) (toggl.Reporter, *toggl.User, error) {
	client, err := cli.newClient(creds)
	if err != nil {
		return nil, nil, err
	}
	user, err := client.Validate(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, user, nil
}

func (cli *CLI) logo(ctx context.Context) *export.Logo {
	if cli.cfg.LogoPath == "" {
		return nil
	}
	logo, err := export.LoadLogo(cli.cfg.LogoPath)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", cli.cfg.LogoPath).Msg("logo ignored")
		return nil
	}
	return logo
}

// fetchCSV returns the CSV for req. Fresh data is cached; when the API
// cannot be reached the cached copy of the same window is used instead.
func (cli *CLI) fetchCSV(ctx context.Context, s *store.Store, req toggl.ReportRequest, offline bool) (string, error) {
	log := zerolog.Ctx(ctx)

	var fetchErr error
	if !offline {
		creds, err := s.Credentials()
		if err != nil {
			return "", err
		}
		if !creds.Complete() {
			return "", fmt.Errorf("%w: run 'togglreport login' first", toggl.ErrMissingCredentials)
		}
		client, err := cli.newClient(creds)
		if err != nil {
			return "", err
		}
		raw, err := client.FetchCSV(ctx, req)
		if err == nil {
			if err := s.SaveReport(req.StartDate, req.EndDate, raw); err != nil {
				log.Warn().Err(err).Msg("cache report")
			}
			return raw, nil
		}
		var status *toggl.StatusError
		if errors.As(err, &status) && status.Unauthorized() {
			return "", err
		}
		log.Warn().Err(err).Msg("fetch failed, trying cache")
		fetchErr = err
	}

	hit, err := s.CachedReport(req.StartDate, req.EndDate)
	if err != nil {
		return "", err
	}
	if hit == nil {
		if fetchErr != nil {
			return "", fetchErr
		}
		return "", fmt.Errorf("no cached report for %s to %s", req.StartDate, req.EndDate)
	}
	log.Info().Time("fetched_at", hit.FetchedAt).Msg("using cached report")
	return hit.CSV, nil
}

// loadRecords fetches and parses the window of req.
func (cli *CLI) loadRecords(ctx context.Context, s *store.Store, req toggl.ReportRequest, offline bool) ([]report.Record, error) {
	raw, err := cli.fetchCSV(ctx, s, req, offline)
	if err != nil {
		return nil, err
	}
	parsed, err := report.ParseString(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Dropped > 0 {
		zerolog.Ctx(ctx).Debug().Int("dropped", parsed.Dropped).Msg("rows with mismatched field count")
	}
	return parsed.Records, nil
}

// monthFlag parses --month, defaulting to the current month. Future months
// are rejected.
func monthFlag(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return report.ShiftMonth(now, 0, now), nil
	}
	m, err := report.ParseMonth(value)
	if err != nil {
		return time.Time{}, err
	}
	if clamped := report.ShiftMonth(m, 0, now); !clamped.Equal(m) {
		return time.Time{}, fmt.Errorf("month %s is in the future", value)
	}
	return m, nil
}

func (cli *CLI) visibility(s *store.Store) (report.Visibility, error) {
	vis, err := s.Visibility()
	if err != nil {
		return nil, fmt.Errorf("load column visibility: %w", err)
	}
	return vis, nil
}
