package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/export"
	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/toggl"
)

type reportCmd struct {
	cli     *CLI
	month   string
	from    string
	to      string
	client  string
	project string
	format  string
	offline bool
}

func (cli *CLI) newReportCmd() *cobra.Command {
	rc := &reportCmd{cli: cli}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report table for a month or date window",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.month, "month", "m", "", "Month as YYYY-MM (default current month)")
	cmd.Flags().StringVar(&rc.from, "from", "", "First day YYYY-MM-DD (overrides --month)")
	cmd.Flags().StringVar(&rc.to, "to", "", "Last day YYYY-MM-DD (overrides --month)")
	cmd.Flags().StringVar(&rc.client, "client", report.AllClients, "Client filter")
	cmd.Flags().StringVar(&rc.project, "project", report.AllProjects, "Project filter")
	cmd.Flags().StringVarP(&rc.format, "format", "f", "table", "Output format: table, csv or json")
	cmd.Flags().BoolVar(&rc.offline, "offline", false, "Use the cached report only")
	cmd.MarkFlagsRequiredTogether("from", "to")

	return cmd
}

func (rc *reportCmd) window(now time.Time) (time.Time, report.DateRange, error) {
	if rc.from == "" {
		month, err := monthFlag(rc.month, now)
		if err != nil {
			return time.Time{}, report.DateRange{}, err
		}
		return month, report.MonthRange(month), nil
	}
	from, err := time.Parse("2006-01-02", rc.from)
	if err != nil {
		return time.Time{}, report.DateRange{}, fmt.Errorf("parse --from: %w", err)
	}
	to, err := time.Parse("2006-01-02", rc.to)
	if err != nil {
		return time.Time{}, report.DateRange{}, fmt.Errorf("parse --to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, report.DateRange{}, fmt.Errorf("--to %s is before --from %s", rc.to, rc.from)
	}
	return from, report.DateRange{Start: from, End: to}, nil
}

func (rc *reportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	switch rc.format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q", rc.format)
	}

	month, rng, err := rc.window(time.Now())
	if err != nil {
		return err
	}

	s, err := rc.cli.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	vis, err := rc.cli.visibility(s)
	if err != nil {
		return err
	}
	records, err := rc.cli.loadRecords(ctx, s, toggl.RangeRequest(rng), rc.offline)
	if err != nil {
		return err
	}

	sel := report.Selection{Client: rc.client, Project: rc.project, Dates: rng}
	res := report.Evaluate(records, sel, vis)
	out := rc.cli.out

	switch rc.format {
	case "csv":
		return export.WriteCSV(out, res)
	case "json":
		doc := export.Document{Client: rc.client, Project: rc.project, Month: month, Result: res}
		data, err := export.MarshalJSON(doc, time.Now())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	title := "Tätigkeitsnachweis für " + report.MonthLabel(month)
	if rc.from != "" {
		title = fmt.Sprintf("Tätigkeitsnachweis %s bis %s", rng.Start.Format("02.01.2006"), rng.End.Format("02.01.2006"))
	}
	fmt.Fprintln(out, title)
	fmt.Fprintf(out, "Kunde: %s   Projekt: %s\n\n", rc.client, rc.project)
	fmt.Fprintln(out, renderTable(res))
	fmt.Fprintf(out, "%d Einträge\n", res.Summary.TotalEntries)
	if len(res.Records) == 0 && len(res.Clients) > 0 {
		fmt.Fprintf(out, "Kunden: %s\n", strings.Join(res.Clients, ", "))
	}
	return nil
}

// renderTable draws the result with the summary row last.
func renderTable(res *report.Result) string {
	rows := append(res.Rows(), res.SummaryRow())
	summary := len(rows) - 1
	bold := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(res.Headers()...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow || row == summary {
				return bold
			}
			return cell
		}).
		Render()
}
