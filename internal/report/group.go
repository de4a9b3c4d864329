package report

import "strings"

type groupKey struct {
	client, project, task string
}

type groupAcc struct {
	rec             Record
	totalMinutes    float64
	billableMinutes float64
	users           bool // constituents disagree on User
	dates           bool // constituents disagree on Start date
	tags            []string
}

// Group derives BillableTime, TotalHours and BillableHours for every record.
// When grouped is true, records sharing (Client, Project, Task) collapse into
// one row in first-occurrence order. Input records are never modified.
func Group(records []Record, grouped bool) []Record {
	if !grouped {
		out := make([]Record, 0, len(records))
		for _, r := range records {
			rec := r.clone()
			rec[FieldBillableTime] = zeroDuration
			if status := r[FieldBillable]; fullyBillable(status) || partlyBillable(status) {
				rec[FieldBillableTime] = r[FieldDuration]
			}
			out = append(out, withHours(rec))
		}
		return out
	}

	var order []groupKey
	groups := make(map[groupKey]*groupAcc)
	for _, r := range records {
		k := groupKey{r[FieldClient], r[FieldProject], r[FieldTask]}
		minutes := ParseMinutes(r[FieldDuration])

		acc, ok := groups[k]
		if !ok {
			acc = &groupAcc{rec: r.clone()}
			groups[k] = acc
			order = append(order, k)
		} else {
			if acc.rec[FieldUser] != r[FieldUser] {
				acc.users = true
			}
			if acc.rec[FieldStartDate] != r[FieldStartDate] {
				acc.dates = true
			}
		}

		acc.totalMinutes += minutes
		if fullyBillable(r[FieldBillable]) {
			acc.billableMinutes += minutes
		}
		if tags := r[FieldTags]; tags != "" {
			acc.tags = append(acc.tags, tags)
		}
	}

	out := make([]Record, 0, len(order))
	for _, k := range order {
		acc := groups[k]
		rec := acc.rec
		rec[FieldDuration] = FormatMinutes(acc.totalMinutes)
		rec[FieldBillableTime] = FormatMinutes(acc.billableMinutes)
		rec[FieldBillable] = groupStatus(acc.billableMinutes, acc.totalMinutes)
		if acc.users {
			rec[FieldUser] = MultipleUsers
		}
		if acc.dates {
			rec[FieldStartDate] = MultipleDates
		}
		if _, ok := rec[FieldTags]; ok || len(acc.tags) > 0 {
			rec[FieldTags] = strings.Join(acc.tags, ", ")
		}
		rec[FieldDescription] = ""
		out = append(out, withHours(rec))
	}
	return out
}

func groupStatus(billable, total float64) string {
	switch {
	case billable == total && total > 0:
		return BillableYes
	case billable == 0:
		return BillableNo
	default:
		return BillablePartial
	}
}

func withHours(rec Record) Record {
	rec[FieldTotalHours] = rec[FieldDuration]
	rec[FieldBillableHours] = rec[FieldBillableTime]
	return rec
}
