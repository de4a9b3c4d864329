package report

// Summary holds the totals of one pipeline run.
type Summary struct {
	TotalHours      string
	BillableHours   string
	TotalEntries    int
	TotalMinutes    float64
	BillableMinutes float64
	AllBillable     bool
}

// Summarize totals Duration and BillableTime over records. A mixed-status row
// whose BillableTime is zero counts its whole duration as billable.
func Summarize(records []Record) Summary {
	var total, billable float64
	for _, r := range records {
		minutes := ParseMinutes(r[FieldDuration])
		total += minutes

		b := ParseMinutes(r[FieldBillableTime])
		if b == 0 && partlyBillable(r[FieldBillable]) {
			b = minutes
		}
		billable += b
	}
	return Summary{
		TotalHours:      FormatMinutes(total),
		BillableHours:   FormatMinutes(billable),
		TotalEntries:    len(records),
		TotalMinutes:    total,
		BillableMinutes: billable,
		AllBillable:     total == billable && total > 0,
	}
}

// BillableDisplay is the value the billable-hours column shows in the summary row.
func (s Summary) BillableDisplay() string {
	if s.AllBillable {
		return s.TotalHours
	}
	return s.BillableHours
}

// SummaryRow builds the synthetic totals row for the given columns.
func SummaryRow(cols []ColumnView, sum Summary) Record {
	row := make(Record, len(cols))
	for _, c := range cols {
		switch c.Field {
		case FieldTask:
			row[c.Field] = SummaryLabel
		case FieldDuration, FieldTotalHours:
			row[c.Field] = sum.TotalHours
		case FieldBillableHours:
			row[c.Field] = sum.BillableDisplay()
		default:
			row[c.Field] = ""
		}
	}
	return row
}
