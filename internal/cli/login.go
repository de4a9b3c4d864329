package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/config"
	"github.com/sadopc/togglreport/internal/toggl"
)

type loginCmd struct {
	cli         *CLI
	token       string
	reportID    string
	profile     string
	profileFile string
}

func (cli *CLI) newLoginCmd() *cobra.Command {
	lc := &loginCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store and validate the API token and shared report id",
		Long:  "Missing values are taken from --profile, then from the stored credentials, then asked for interactively.",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}

	cmd.Flags().StringVar(&lc.token, "token", "", "Toggl Track API token")
	cmd.Flags().StringVar(&lc.reportID, "report-id", "", "Shared report id")
	cmd.Flags().StringVar(&lc.profile, "profile", "", "Read credentials from this profile")
	cmd.Flags().StringVar(&lc.profileFile, "profile-file", config.DefaultProfilePath(), "Profile file")

	return cmd
}

func (lc *loginCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := zerolog.Ctx(ctx)

	s, err := lc.cli.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	creds := toggl.Credentials{Token: strings.TrimSpace(lc.token), ReportID: strings.TrimSpace(lc.reportID)}
	if lc.profile != "" {
		fromProfile, err := config.LoadProfile(lc.profileFile, lc.profile)
		if err != nil {
			if names, perr := config.Profiles(lc.profileFile); perr == nil && len(names) > 0 {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
			}
			return err
		}
		creds = merge(creds, fromProfile)
	}
	if !creds.Complete() {
		stored, err := s.Credentials()
		if err != nil {
			return err
		}
		creds = merge(creds, stored)
	}
	if !creds.Complete() {
		if creds, err = ask(creds); err != nil {
			return err
		}
	}

	if err := s.SaveCredentials(creds); err != nil {
		return err
	}

	client, err := lc.cli.newClient(creds)
	if err != nil {
		return err
	}
	user, err := client.Validate(ctx)
	switch {
	case errors.Is(err, toggl.ErrInvalidToken):
		if cerr := s.ClearToken(); cerr != nil {
			log.Warn().Err(cerr).Msg("clear token")
		}
		return fmt.Errorf("login failed, stored token cleared: %w", err)
	case errors.Is(err, toggl.ErrInvalidReportID):
		if cerr := s.ClearReportID(); cerr != nil {
			log.Warn().Err(cerr).Msg("clear report id")
		}
		return fmt.Errorf("login failed, stored report id cleared: %w", err)
	case err != nil:
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(lc.cli.out, "Logged in as %s <%s>\n", user.Fullname, user.Email)
	return nil
}

// merge fills empty fields of c from fallback.
func merge(c, fallback toggl.Credentials) toggl.Credentials {
	if c.Token == "" {
		c.Token = fallback.Token
	}
	if c.ReportID == "" {
		c.ReportID = fallback.ReportID
	}
	return c
}

func ask(creds toggl.Credentials) (toggl.Credentials, error) {
	required := func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("required")
		}
		return nil
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("API token").EchoMode(huh.EchoModePassword).Validate(required).Value(&creds.Token),
			huh.NewInput().Title("Shared report id").Validate(required).Value(&creds.ReportID),
		),
	)
	if err := form.Run(); err != nil {
		return creds, fmt.Errorf("read credentials: %w", err)
	}
	creds.Token = strings.TrimSpace(creds.Token)
	creds.ReportID = strings.TrimSpace(creds.ReportID)
	return creds, nil
}

func (cli *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cli.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.ClearCredentials(); err != nil {
				return err
			}
			fmt.Fprintln(cli.out, "Credentials removed")
			return nil
		},
	}
}
