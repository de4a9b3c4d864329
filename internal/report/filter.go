package report

import (
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive calendar-day window. The zero value means no window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range imposes no limit.
func (d DateRange) IsZero() bool {
	return d.Start.IsZero() && d.End.IsZero()
}

// Contains reports whether day falls inside the window by calendar date.
func (d DateRange) Contains(day time.Time) bool {
	day = truncateDay(day)
	if !d.Start.IsZero() && day.Before(truncateDay(d.Start)) {
		return false
	}
	if !d.End.IsZero() && day.After(truncateDay(d.End)) {
		return false
	}
	return true
}

// Selection is the client/project/date choice a pipeline run is evaluated for.
type Selection struct {
	Client  string
	Project string
	Dates   DateRange
}

// HasClient reports whether a concrete client is selected.
func (s Selection) HasClient() bool {
	return s.Client != "" && s.Client != AllClients
}

// HasProject reports whether a concrete project is selected.
func (s Selection) HasProject() bool {
	return s.Project != "" && s.Project != AllProjects
}

// IsInternal reports whether the record belongs to an internal client or project.
func IsInternal(r Record) bool {
	return containsFold(r[FieldClient], "intern") || containsFold(r[FieldProject], "intern")
}

// ExcludeInternal drops records of internal clients and projects.
func ExcludeInternal(records []Record) []Record {
	return keep(records, func(r Record) bool { return !IsInternal(r) })
}

// WithinDates keeps records whose start date lies in rng. Records with an
// unreadable date are kept.
func WithinDates(records []Record, rng DateRange) []Record {
	if rng.IsZero() {
		return keep(records, func(Record) bool { return true })
	}
	return keep(records, func(r Record) bool {
		day, err := time.Parse(dateLayout, strings.TrimSpace(r[FieldStartDate]))
		if err != nil {
			return true
		}
		return rng.Contains(day)
	})
}

// SelectClient keeps the records of client, or all records for the sentinel.
func SelectClient(records []Record, client string) []Record {
	if client == "" || client == AllClients {
		return keep(records, func(Record) bool { return true })
	}
	return keep(records, func(r Record) bool { return r[FieldClient] == client })
}

// SelectProject keeps the records of project, or all records for the sentinel.
func SelectProject(records []Record, project string) []Record {
	if project == "" || project == AllProjects {
		return keep(records, func(Record) bool { return true })
	}
	return keep(records, func(r Record) bool { return r[FieldProject] == project })
}

// Filter applies the internal exclusion, the date window and the client and
// project selection, in that order.
func Filter(records []Record, sel Selection) []Record {
	out := ExcludeInternal(records)
	out = WithinDates(out, sel.Dates)
	out = SelectClient(out, sel.Client)
	return SelectProject(out, sel.Project)
}

// Clients lists the distinct non-empty clients, sorted.
func Clients(records []Record) []string {
	return distinct(records, FieldClient, func(Record) bool { return true })
}

// ProjectsFor lists the distinct projects of client, sorted. The sentinel
// lists every project.
func ProjectsFor(records []Record, client string) []string {
	return distinct(records, FieldProject, func(r Record) bool {
		return client == "" || client == AllClients || r[FieldClient] == client
	})
}

func keep(records []Record, pred func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func distinct(records []Record, field string, pred func(Record) bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		v := r[field]
		if v == "" || seen[v] || !pred(r) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
