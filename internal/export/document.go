// Package export writes pipeline results as activity-report PDFs, ZIP
// bundles of those PDFs, and CSV or JSON tables.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/togglreport/internal/report"
)

// Document is one evaluated report for a client, project and month.
type Document struct {
	Client  string
	Project string
	Month   time.Time
	Result  *report.Result
}

// File is a generated export held in memory.
type File struct {
	Name string
	Data []byte
}

// NewDocument evaluates records for the given client, project and month.
func NewDocument(records []report.Record, client, project string, month time.Time, vis report.Visibility) Document {
	sel := report.Selection{Client: client, Project: project, Dates: report.MonthRange(month)}
	return Document{
		Client:  clientLabel(client),
		Project: projectLabel(project),
		Month:   month,
		Result:  report.Evaluate(records, sel, vis),
	}
}

// Title is the PDF heading, "Tätigkeitsnachweis für März 2024".
func (d Document) Title() string {
	return "Tätigkeitsnachweis für " + report.MonthLabel(d.Month)
}

// Filename is the PDF file name for the document.
func (d Document) Filename() string {
	return Filename(d.Client, d.Project, d.Month)
}

// Filename builds "Tätigkeitsnachweis_<client>[_<project>]_<YYYY-MM>.pdf".
// The project part is left out for the all-projects sentinel.
func Filename(client, project string, month time.Time) string {
	var b strings.Builder
	b.WriteString("Tätigkeitsnachweis_")
	b.WriteString(SafeName(clientLabel(client)))
	if project != "" && project != report.AllProjects {
		b.WriteString("_")
		b.WriteString(SafeName(project))
	}
	fmt.Fprintf(&b, "_%04d-%02d.pdf", month.Year(), int(month.Month()))
	return b.String()
}

// ZipName is the bundle name for a bulk export of month.
func ZipName(month time.Time) string {
	return fmt.Sprintf("Tätigkeitsnachweise_%04d-%02d.zip", month.Year(), int(month.Month()))
}

// SafeName replaces every rune outside ASCII letters, digits and German
// umlauts with an underscore.
func SafeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("äöüÄÖÜß", r):
			return r
		}
		return '_'
	}, s)
}

func clientLabel(client string) string {
	if client == "" {
		return report.AllClients
	}
	return client
}

func projectLabel(project string) string {
	if project == "" {
		return report.AllProjects
	}
	return project
}
