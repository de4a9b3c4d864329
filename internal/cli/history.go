package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (cli *CLI) newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cli.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListExports(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cli.out, "No exports yet")
				return nil
			}
			for _, r := range runs {
				status := ""
				if r.Cancelled {
					status = " (cancelled)"
				}
				fmt.Fprintf(cli.out, "%s  %-4s %3d  %s%s\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Kind, r.Documents, r.Path, status)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries")
	return cmd
}
