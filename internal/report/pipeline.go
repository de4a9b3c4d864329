package report

// Result is everything a renderer or exporter needs from one run.
type Result struct {
	Records  []Record
	Columns  []ColumnView
	Summary  Summary
	Clients  []string
	Projects []string
	Dropped  int
}

// Run parses raw and evaluates it for sel and vis. Each call is independent;
// nothing from a previous run is reused.
func Run(raw string, sel Selection, vis Visibility) (*Result, error) {
	parsed, err := ParseString(raw)
	if err != nil {
		return nil, err
	}
	res := Evaluate(parsed.Records, sel, vis)
	res.Dropped = parsed.Dropped
	return res, nil
}

// Evaluate runs the pipeline over already parsed records.
func Evaluate(records []Record, sel Selection, vis Visibility) *Result {
	vis = vis.Merge()

	base := WithinDates(ExcludeInternal(records), sel.Dates)
	projects := ProjectsFor(base, sel.Client)

	selected := SelectProject(SelectClient(base, sel.Client), sel.Project)
	rows := Group(selected, vis.Grouped())
	sum := Summarize(rows)

	return &Result{
		Records:  rows,
		Columns:  ProjectColumns(DefaultColumns(), vis, sum, sel, len(projects)),
		Summary:  sum,
		Clients:  Clients(base),
		Projects: projects,
	}
}

// Headers returns the visible column headers.
func (r *Result) Headers() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Header
	}
	return out
}

// Rows returns the records projected onto the visible columns.
func (r *Result) Rows() [][]string {
	out := make([][]string, 0, len(r.Records))
	for _, rec := range r.Records {
		out = append(out, r.project(rec))
	}
	return out
}

// SummaryRow returns the totals row projected onto the visible columns.
func (r *Result) SummaryRow() []string {
	return r.project(SummaryRow(r.Columns, r.Summary))
}

func (r *Result) project(rec Record) []string {
	row := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		row[i] = rec[c.Field]
	}
	return row
}
