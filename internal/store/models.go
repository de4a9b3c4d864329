package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// CachedReport is the last CSV fetched for one date window.
type CachedReport struct {
	StartDate string
	EndDate   string
	CSV       string
	FetchedAt time.Time
}

// Export kinds recorded in export_runs.
const (
	ExportPDF  = "pdf"
	ExportZIP  = "zip"
	ExportCSV  = "csv"
	ExportJSON = "json"
)

// ExportRun is one finished or cancelled export.
type ExportRun struct {
	ID        int64
	Kind      string
	Path      string
	Documents int
	Cancelled bool
	CreatedAt time.Time
}

// SavedSelection is the filter state restored on the next start.
type SavedSelection struct {
	Client  string
	Project string
	Month   string // "2006-01", empty for the current month
}
