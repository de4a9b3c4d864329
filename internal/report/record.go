// Package report turns a raw Toggl CSV export into the grouped, billing-aware
// table shown by the terminal UI and written by the exporters.
package report

import "strings"

// Record is one report row keyed by CSV header name.
type Record map[string]string

// Canonical CSV fields plus the fields derived by Group.
const (
	FieldUser        = "User"
	FieldClient      = "Client"
	FieldProject     = "Project"
	FieldTask        = "Task"
	FieldDescription = "Description"
	FieldBillable    = "Billable"
	FieldStartDate   = "Start date"
	FieldDuration    = "Duration"
	FieldTags        = "Tags"

	FieldBillableTime  = "BillableTime"
	FieldTotalHours    = "TotalHours"
	FieldBillableHours = "BillableHours"
)

// Billable status values as they appear in English and German exports.
const (
	BillableYes     = "Yes"
	BillableNo      = "No"
	BillableJa      = "Ja"
	BillableNein    = "Nein"
	BillableMixed   = "Gemischt"
	BillablePartial = "Teilweise"
)

// Placeholders written into grouped rows.
const (
	MultipleUsers = "Verschiedene Teammitglieder"
	MultipleDates = "Verschiedene Daten"
	SummaryLabel  = "ZUSAMMENFASSUNG"
)

// Selection sentinels meaning "nothing selected".
const (
	AllClients  = "Alle Kunden"
	AllProjects = "Alle Projekte"
)

const zeroDuration = "00:00:00"

func (r Record) clone() Record {
	out := make(Record, len(r)+3)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// fullyBillable reports whether the status counts toward grouped billable time.
func fullyBillable(status string) bool {
	return status == BillableYes || status == BillableJa
}

// partlyBillable covers the mixed statuses Toggl writes for partially billed rows.
func partlyBillable(status string) bool {
	return status == BillableMixed || status == BillablePartial
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
