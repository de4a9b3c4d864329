package export

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/togglreport/internal/report"
)

// Progress describes the document a bulk export is working on. Current is
// 1-based.
type Progress struct {
	Current int
	Total   int
	Client  string
	Project string
}

// Percent is Current/Total as a whole percentage.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return p.Current * 100 / p.Total
}

// BulkOptions configures Bulk.
type BulkOptions struct {
	Month      time.Time
	Visibility report.Visibility
	PDF        PDFOptions
	Delay      time.Duration // slept between documents
	OnProgress func(Progress)
}

// BulkResult holds the documents produced before Bulk returned.
type BulkResult struct {
	Files     []File
	Total     int
	Cancelled bool
}

// Target is one (client, project) combination of a bulk export.
type Target struct {
	Client  string
	Project string
}

// Targets lists the documents a bulk export of month produces: one per
// client, or one per project for clients with several projects.
func Targets(records []report.Record, month time.Time) []Target {
	base := report.WithinDates(report.ExcludeInternal(records), report.MonthRange(month))
	var out []Target
	for _, client := range report.Clients(base) {
		projects := report.ProjectsFor(base, client)
		if len(projects) <= 1 {
			out = append(out, Target{Client: client, Project: report.AllProjects})
			continue
		}
		for _, p := range projects {
			out = append(out, Target{Client: client, Project: p})
		}
	}
	return out
}

// Bulk renders a PDF for every target of the month, one after another. The
// context is checked before each document; on cancellation the documents
// finished so far are returned with Cancelled set and a nil error.
func Bulk(ctx context.Context, records []report.Record, opts BulkOptions) (*BulkResult, error) {
	log := zerolog.Ctx(ctx)
	targets := Targets(records, opts.Month)
	res := &BulkResult{Total: len(targets)}

	for i, t := range targets {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Current: i + 1, Total: len(targets), Client: t.Client, Project: t.Project})
		}

		doc := NewDocument(records, t.Client, t.Project, opts.Month, opts.Visibility)
		file, err := RenderPDF(doc, opts.PDF)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, file)
		log.Debug().Str("client", t.Client).Str("project", t.Project).Str("file", file.Name).Msg("rendered pdf")

		if i < len(targets)-1 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				res.Cancelled = true
				return res, nil
			case <-time.After(opts.Delay):
			}
		}
	}
	return res, nil
}
