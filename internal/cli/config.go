package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/config"
)

func (cli *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.Save(cli.cfgPath, config.Default(), force)
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cli.cfg
			fmt.Fprintf(cli.out, "api_base_url = %s\n", c.APIBaseURL)
			fmt.Fprintf(cli.out, "use_relay    = %t\n", c.UseRelay)
			fmt.Fprintf(cli.out, "relay_addr   = %s\n", c.RelayAddr)
			fmt.Fprintf(cli.out, "output_dir   = %s\n", c.OutputDir)
			fmt.Fprintf(cli.out, "logo_path    = %s\n", c.LogoPath)
			fmt.Fprintf(cli.out, "db_path      = %s\n", c.DBPath)
			fmt.Fprintf(cli.out, "bulk_delay   = %s\n", c.BulkDelay)
			fmt.Fprintf(cli.out, "log_level    = %s\n", c.LogLevel)

			s, err := cli.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			stored, err := s.GetAllSettings()
			if err != nil {
				return err
			}
			for _, st := range stored {
				if strings.HasPrefix(st.Key, "auth.") {
					continue
				}
				fmt.Fprintf(cli.out, "%-12s = %s\n", st.Key, st.Value)
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
