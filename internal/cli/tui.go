package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/toggl"
	"github.com/sadopc/togglreport/internal/tui"
)

func (cli *CLI) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive report viewer (default)",
		Args:  cobra.NoArgs,
		RunE:  cli.runTUI,
	}
}

// runTUI starts the Bubble Tea program. Logs go to a file next to the
// database since the terminal belongs to the UI.
func (cli *CLI) runTUI(cmd *cobra.Command, _ []string) error {
	dataDir := cli.cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(dataDir, "togglreport.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := zerolog.New(logFile).Level(cli.cfg.Level()).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	s, err := cli.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	creds, err := s.Credentials()
	if err != nil {
		return err
	}
	var client toggl.Reporter
	if creds.Complete() {
		c, err := cli.newClient(creds)
		if err != nil {
			return err
		}
		client = c
	}

	app := tui.NewApp(ctx, s, tui.Options{
		Client:    client,
		Connect:   cli.connect,
		OutputDir: cli.cfg.OutputDir,
		Logo:      cli.logo(ctx),
		BulkDelay: cli.cfg.BulkDelay,
	})
	logger.Info().Bool("logged_in", client != nil).Msg("tui started")

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
