package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/report"
)

func (cli *CLI) newColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Show or change which report columns are visible",
		Args:  cobra.NoArgs,
		RunE:  cli.listColumns,
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <on|off>",
		Short:     "Show or hide a column",
		Args:      cobra.ExactArgs(2),
		ValidArgs: report.VisibilityKeys(),
		RunE:      cli.setColumn,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "compact",
		Short: "Show one grouped row per activity with hour totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cli.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.SaveVisibility(report.CompactVisibility()); err != nil {
				return err
			}
			return cli.listColumns(cmd, nil)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cli.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.ResetVisibility(); err != nil {
				return err
			}
			return cli.listColumns(cmd, nil)
		},
	})

	return cmd
}

func (cli *CLI) listColumns(_ *cobra.Command, _ []string) error {
	s, err := cli.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	vis, err := cli.visibility(s)
	if err != nil {
		return err
	}
	for _, col := range report.DefaultColumns() {
		mark := " "
		if vis[col.Key] {
			mark = "x"
		}
		fmt.Fprintf(cli.out, "[%s] %-20s %s\n", mark, col.Key, col.Header)
	}
	return nil
}

func (cli *CLI) setColumn(cmd *cobra.Command, args []string) error {
	on, err := parseSwitch(args[1])
	if err != nil {
		return err
	}

	s, err := cli.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SetColumn(args[0], on); err != nil {
		return err
	}
	return cli.listColumns(cmd, nil)
}

func parseSwitch(v string) (bool, error) {
	switch v {
	case "on", "show":
		return true, nil
	case "off", "hide":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", v)
	}
	return b, nil
}
