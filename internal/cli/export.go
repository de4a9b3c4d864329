package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sadopc/togglreport/internal/export"
	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/store"
	"github.com/sadopc/togglreport/internal/toggl"
)

type exportCmd struct {
	cli     *CLI
	month   string
	client  string
	project string
	outDir  string
	offline bool
}

func (cli *CLI) newExportCmd() *cobra.Command {
	ec := &exportCmd{cli: cli}
	cmd := &cobra.Command{
		Use:       "export {pdf|zip|csv|json}",
		Short:     "Export the monthly activity report",
		Long:      "pdf, csv and json export the selected client and project. zip renders one PDF per client (per project for clients with several) into one archive.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{store.ExportPDF, store.ExportZIP, store.ExportCSV, store.ExportJSON},
		RunE:      ec.run,
	}

	cmd.Flags().StringVarP(&ec.month, "month", "m", "", "Month as YYYY-MM (default current month)")
	cmd.Flags().StringVar(&ec.client, "client", report.AllClients, "Client filter")
	cmd.Flags().StringVar(&ec.project, "project", report.AllProjects, "Project filter")
	cmd.Flags().StringVarP(&ec.outDir, "out", "o", "", "Output directory (default output_dir from the config)")
	cmd.Flags().BoolVar(&ec.offline, "offline", false, "Use the cached report only")

	return cmd
}

func (ec *exportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind := args[0]

	month, err := monthFlag(ec.month, time.Now())
	if err != nil {
		return err
	}
	dir := ec.outDir
	if dir == "" {
		dir = ec.cli.cfg.OutputDir
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	s, err := ec.cli.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	vis, err := ec.cli.visibility(s)
	if err != nil {
		return err
	}
	records, err := ec.cli.loadRecords(ctx, s, toggl.MonthRequest(month), ec.offline)
	if err != nil {
		return err
	}

	if kind == store.ExportZIP {
		return ec.bulk(ctx, s, records, month, vis, dir)
	}

	doc := export.NewDocument(records, ec.client, ec.project, month, vis)
	path := filepath.Join(dir, strings.TrimSuffix(doc.Filename(), ".pdf")+"."+kind)
	switch kind {
	case store.ExportPDF:
		err = export.ToPDF(doc, path, export.PDFOptions{Logo: ec.cli.logo(ctx)})
	case store.ExportCSV:
		err = export.ToCSV(doc.Result, path)
	case store.ExportJSON:
		err = export.ToJSON(doc, path)
	}
	if err != nil {
		return err
	}

	if _, err := s.RecordExport(kind, path, 1, false); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("record export")
	}
	fmt.Fprintln(ec.cli.out, path)
	return nil
}

// bulk renders the ZIP bundle. SIGINT stops after the current document and
// keeps the finished ones.
func (ec *exportCmd) bulk(ctx context.Context, s *store.Store, records []report.Record, month time.Time, vis report.Visibility, dir string) error {
	log := zerolog.Ctx(ctx)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := export.Bulk(ctx, records, export.BulkOptions{
		Month:      month,
		Visibility: vis,
		PDF:        export.PDFOptions{Logo: ec.cli.logo(ctx)},
		Delay:      ec.cli.cfg.BulkDelay,
		OnProgress: func(p export.Progress) {
			fmt.Fprintf(ec.cli.errOut, "[%d/%d] %s / %s\n", p.Current, p.Total, p.Client, p.Project)
		},
	})
	if err != nil {
		return err
	}
	if len(res.Files) == 0 {
		if res.Cancelled {
			return fmt.Errorf("export cancelled")
		}
		return fmt.Errorf("nothing to export for %s", report.MonthLabel(month))
	}

	path := filepath.Join(dir, export.ZipName(month))
	if err := export.ToZIP(res.Files, path); err != nil {
		return err
	}
	if _, err := s.RecordExport(store.ExportZIP, path, len(res.Files), res.Cancelled); err != nil {
		log.Warn().Err(err).Msg("record export")
	}
	if res.Cancelled {
		log.Warn().Int("documents", len(res.Files)).Int("total", res.Total).Msg("export cancelled, partial archive written")
	}
	fmt.Fprintln(ec.cli.out, path)
	return nil
}
