package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "User,Client,Project,Task,Description,Billable,Start date,Duration,Tags\n"

const oneSecond = 1.0 / 60

func mustParse(t *testing.T, raw string) []Record {
	t.Helper()
	res, err := ParseString(raw)
	require.NoError(t, err)
	return res.Records
}

func rec(user, client, project, task, billable, date, duration, tags string) Record {
	return Record{
		FieldUser:        user,
		FieldClient:      client,
		FieldProject:     project,
		FieldTask:        task,
		FieldDescription: "desc",
		FieldBillable:    billable,
		FieldStartDate:   date,
		FieldDuration:    duration,
		FieldTags:        tags,
	}
}

// ============================================================
// Durations
// ============================================================

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00:00", 0},
		{"01:30:00", 90},
		{"00:00:30", 0.5},
		{"100:00:00", 6000},
		{"01:30", 90},
		{"", 0},
		{"garbage", 0},
		{"aa:10:00", 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ParseMinutes(tt.in), 1e-9, "ParseMinutes(%q)", tt.in)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{-5, "00:00:00"},
		{0.25, "00:00:15"},
		{90.5, "01:30:30"},
		{120, "02:00:00"},
		{6000, "100:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.in), "FormatMinutes(%v)", tt.in)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	for secs := 0; secs < 400000; secs += 37 {
		m := float64(secs) / 60
		got := ParseMinutes(FormatMinutes(m))
		require.InDelta(t, m, got, oneSecond+1e-9, "round trip of %d seconds", secs)
	}
}

// ============================================================
// Parser
// ============================================================

func TestParseQuotedFields(t *testing.T) {
	raw := header +
		`Alice,"Acme, Inc.",Web,Design,"He said ""hi""",Yes,2024-01-05,01:00:00,"a, b"` + "\n"
	records := mustParse(t, raw)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme, Inc.", records[0][FieldClient])
	assert.Equal(t, `He said "hi"`, records[0][FieldDescription])
	assert.Equal(t, "a, b", records[0][FieldTags])
}

func TestParseDropsMismatchedRows(t *testing.T) {
	raw := header +
		"A,B,C\n" +
		"Alice,Acme,Web,Design,x,Yes,2024-01-05,01:00:00,\n"
	res, err := ParseString(raw)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, "Alice", res.Records[0][FieldUser])
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", header, strings.TrimSuffix(header, "\n")} {
		res, err := ParseString(raw)
		require.NoError(t, err)
		assert.Empty(t, res.Records)
	}
}

func TestParseTrimsAndKeepsSchema(t *testing.T) {
	raw := "\ufeffUser , Client\n  Alice ,  \n"
	records := mustParse(t, raw)
	require.Len(t, records, 1)
	assert.Equal(t, Record{"User": "Alice", "Client": ""}, records[0])
}

func TestParseKeepsEmbeddedNewlines(t *testing.T) {
	raw := "User,Description\nAlice,\"line one\nline two\"\n"
	records := mustParse(t, raw)
	require.Len(t, records, 1)
	assert.Equal(t, "line one\nline two", records[0]["Description"])
}

func TestParseMalformedQuotes(t *testing.T) {
	_, err := ParseString("User,Client\n\"Alice,Acme\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedCSV)
}

// ============================================================
// Filter
// ============================================================

func TestExcludeInternal(t *testing.T) {
	records := []Record{
		rec("a", "Intern Web", "Site", "Dev", "Yes", "2024-01-05", "01:00:00", ""),
		rec("a", "Acme", "INTERNAL tooling", "Dev", "Yes", "2024-01-05", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-05", "01:00:00", ""),
	}
	once := ExcludeInternal(records)
	require.Len(t, once, 1)
	assert.Equal(t, "Web", once[0][FieldProject])
	assert.Equal(t, once, ExcludeInternal(once))
}

func TestInternalNeverSurvivesAnyRange(t *testing.T) {
	records := []Record{rec("a", "Intern Web", "Site", "Dev", "Yes", "2024-01-05", "01:00:00", "")}
	ranges := []DateRange{
		{},
		{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{Start: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, rng := range ranges {
		assert.Empty(t, Filter(records, Selection{Dates: rng}))
	}
}

func TestWithinDatesInclusive(t *testing.T) {
	records := []Record{
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-15", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-31", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-02-01", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Yes", "2023-12-31", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Yes", "unknown", "01:00:00", ""),
	}
	got := WithinDates(records, MonthRange(time.Date(2024, 1, 20, 13, 0, 0, 0, time.UTC)))
	var dates []string
	for _, r := range got {
		dates = append(dates, r[FieldStartDate])
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-15", "2024-01-31", "unknown"}, dates)
}

func TestFilterDoesNotMutateAndKeepsOrder(t *testing.T) {
	records := []Record{
		rec("a", "Beta", "App", "Dev", "Yes", "2024-01-02", "01:00:00", ""),
		rec("b", "Acme", "Web", "Dev", "No", "2024-01-01", "02:00:00", ""),
		rec("c", "Acme", "Shop", "QA", "Yes", "2024-01-03", "03:00:00", ""),
	}
	before := fmt.Sprint(records)
	got := Filter(records, Selection{Client: "Acme", Project: AllProjects})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0][FieldUser])
	assert.Equal(t, "c", got[1][FieldUser])
	assert.Equal(t, before, fmt.Sprint(records))

	got = Filter(records, Selection{Client: "Acme", Project: "Shop"})
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0][FieldUser])
}

func TestClientsAndProjects(t *testing.T) {
	records := []Record{
		rec("a", "Beta", "App", "Dev", "Yes", "2024-01-02", "01:00:00", ""),
		rec("b", "Acme", "Web", "Dev", "No", "2024-01-01", "02:00:00", ""),
		rec("c", "Acme", "Shop", "QA", "Yes", "2024-01-03", "03:00:00", ""),
		rec("d", "Acme", "Web", "QA", "Yes", "2024-01-03", "03:00:00", ""),
		rec("e", "", "Loose", "QA", "Yes", "2024-01-03", "03:00:00", ""),
	}
	assert.Equal(t, []string{"Acme", "Beta"}, Clients(records))
	assert.Equal(t, []string{"Shop", "Web"}, ProjectsFor(records, "Acme"))
	assert.Equal(t, []string{"App", "Loose", "Shop", "Web"}, ProjectsFor(records, AllClients))
}

// ============================================================
// Grouping
// ============================================================

func TestGroupScenario(t *testing.T) {
	raw := header +
		`Alice,Acme,Web,Design,"Homepage",Yes,2024-01-05,01:30:00,` + "\n" +
		`Bob,Acme,Web,Design,"Footer",Yes,2024-01-06,00:30:00,` + "\n"
	out := Group(mustParse(t, raw), true)
	require.Len(t, out, 1)
	g := out[0]
	assert.Equal(t, "Acme", g[FieldClient])
	assert.Equal(t, "Web", g[FieldProject])
	assert.Equal(t, "Design", g[FieldTask])
	assert.Equal(t, "02:00:00", g[FieldDuration])
	assert.Equal(t, "02:00:00", g[FieldBillableTime])
	assert.Equal(t, BillableYes, g[FieldBillable])
	assert.Equal(t, MultipleUsers, g[FieldUser])
	assert.Equal(t, MultipleDates, g[FieldStartDate])
	assert.Equal(t, "", g[FieldDescription])
	assert.Equal(t, "02:00:00", g[FieldTotalHours])
	assert.Equal(t, "02:00:00", g[FieldBillableHours])
}

func TestGroupBillableStatus(t *testing.T) {
	records := []Record{
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", "x"),
		rec("a", "Acme", "Web", "Dev", "No", "2024-01-01", "01:00:00", ""),
		rec("a", "Acme", "Web", "Ops", "Nein", "2024-01-01", "01:00:00", "y"),
		rec("a", "Acme", "Web", "QA", "Ja", "2024-01-01", "00:45:00", ""),
		rec("a", "Acme", "Web", "QA", "Teilweise", "2024-01-01", "00:15:00", ""),
	}
	out := Group(records, true)
	require.Len(t, out, 3)

	assert.Equal(t, "Dev", out[0][FieldTask])
	assert.Equal(t, BillablePartial, out[0][FieldBillable])
	assert.Equal(t, "01:00:00", out[0][FieldBillableTime])
	assert.Equal(t, "a", out[0][FieldUser])
	assert.Equal(t, "2024-01-01", out[0][FieldStartDate])
	assert.Equal(t, "x", out[0][FieldTags])

	assert.Equal(t, BillableNo, out[1][FieldBillable])
	assert.Equal(t, "00:00:00", out[1][FieldBillableTime])

	// Teilweise rows do not count toward grouped billable time.
	assert.Equal(t, BillablePartial, out[2][FieldBillable])
	assert.Equal(t, "00:45:00", out[2][FieldBillableTime])
	assert.Equal(t, "01:00:00", out[2][FieldDuration])
}

func TestGroupFirstWriteWinsAndTags(t *testing.T) {
	a := rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", "alpha")
	a["Email"] = "first@example.com"
	b := rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", "beta, alpha")
	b["Email"] = "second@example.com"
	c := rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", "alpha")
	c["Email"] = "third@example.com"

	out := Group([]Record{a, b, c}, true)
	require.Len(t, out, 1)
	assert.Equal(t, "first@example.com", out[0]["Email"])
	assert.Equal(t, "alpha, beta, alpha, alpha", out[0][FieldTags])
}

func TestGroupStableOrderAndCaseSensitiveKey(t *testing.T) {
	records := []Record{
		rec("a", "Beta", "App", "Dev", "Yes", "2024-01-01", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", ""),
		rec("a", "Beta", "App", "Dev", "Yes", "2024-01-02", "01:00:00", ""),
		rec("a", "acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", ""),
	}
	out := Group(records, true)
	require.Len(t, out, 3)
	assert.Equal(t, "Beta", out[0][FieldClient])
	assert.Equal(t, "Acme", out[1][FieldClient])
	assert.Equal(t, "acme", out[2][FieldClient])
}

func TestGroupConservesDuration(t *testing.T) {
	var records []Record
	var inputMinutes float64
	for i := 0; i < 50; i++ {
		d := FormatMinutes(float64(i*97%600) + float64(i%60)/60)
		records = append(records, rec("u", "Acme", fmt.Sprintf("P%d", i%4), fmt.Sprintf("T%d", i%3), "Yes", "2024-01-01", d, ""))
		inputMinutes += ParseMinutes(d)
	}
	out := Group(records, true)
	var grouped float64
	for _, r := range out {
		grouped += ParseMinutes(r[FieldDuration])
	}
	assert.InDelta(t, inputMinutes, grouped, float64(len(out))*oneSecond)
}

func TestGroupUngroupedBillableTime(t *testing.T) {
	records := []Record{
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", ""),
		rec("a", "Acme", "Web", "Dev", "Gemischt", "2024-01-01", "00:30:00", ""),
		rec("a", "Acme", "Web", "Dev", "Nein", "2024-01-01", "00:20:00", ""),
	}
	out := Group(records, false)
	require.Len(t, out, 3)
	assert.Equal(t, "01:00:00", out[0][FieldBillableTime])
	assert.Equal(t, "00:30:00", out[1][FieldBillableTime])
	assert.Equal(t, "00:00:00", out[2][FieldBillableTime])
	assert.Equal(t, "desc", out[0][FieldDescription])
	assert.NotContains(t, records[0], FieldBillableTime)
}

// ============================================================
// Summary
// ============================================================

func TestSummarize(t *testing.T) {
	records := Group([]Record{
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", ""),
		rec("a", "Acme", "Web", "Ops", "No", "2024-01-01", "00:30:00", ""),
	}, false)
	sum := Summarize(records)
	assert.Equal(t, "01:30:00", sum.TotalHours)
	assert.Equal(t, "01:00:00", sum.BillableHours)
	assert.Equal(t, 2, sum.TotalEntries)
	assert.False(t, sum.AllBillable)
}

func TestSummarizeAllBillable(t *testing.T) {
	sum := Summarize(Group([]Record{
		rec("a", "Acme", "Web", "Dev", "Yes", "2024-01-01", "01:00:00", ""),
		rec("a", "Acme", "Web", "Ops", "Ja", "2024-01-01", "00:30:00", ""),
	}, true))
	assert.True(t, sum.AllBillable)
	assert.Equal(t, sum.TotalMinutes, sum.BillableMinutes)

	empty := Summarize(nil)
	assert.False(t, empty.AllBillable)
	assert.Equal(t, "00:00:00", empty.TotalHours)
}

func TestSummarizeMixedZeroCorrection(t *testing.T) {
	r := rec("a", "Acme", "Web", "Dev", "Teilweise", "2024-01-01", "01:00:00", "")
	r[FieldBillableTime] = "00:00:00"
	sum := Summarize([]Record{r})
	assert.InDelta(t, 60, sum.BillableMinutes, 1e-9)
	assert.True(t, sum.AllBillable)
}

func TestAllBillableFlagMatchesRows(t *testing.T) {
	sets := [][]Record{
		{rec("a", "A", "P", "T", "Yes", "2024-01-01", "01:00:00", "")},
		{rec("a", "A", "P", "T", "No", "2024-01-01", "01:00:00", "")},
		{rec("a", "A", "P", "T", "Yes", "2024-01-01", "01:00:00", ""), rec("a", "A", "P", "U", "No", "2024-01-01", "00:01:00", "")},
		{rec("a", "A", "P", "T", "Yes", "2024-01-01", "00:00:00", "")},
	}
	for _, grouped := range []bool{true, false} {
		for i, set := range sets {
			rows := Group(set, grouped)
			sum := Summarize(rows)
			if sum.AllBillable {
				assert.Equal(t, sum.TotalMinutes, sum.BillableMinutes, "set %d", i)
				assert.Greater(t, sum.TotalMinutes, 0.0, "set %d", i)
			}
			for _, r := range set {
				if r[FieldBillable] == BillableNo && sum.TotalMinutes > 0 {
					assert.False(t, sum.AllBillable, "set %d", i)
				}
			}
		}
	}
}

func TestSummaryRow(t *testing.T) {
	cols := []ColumnView{
		{Field: FieldClient}, {Field: FieldTask}, {Field: FieldDuration},
		{Field: FieldTotalHours}, {Field: FieldBillableHours},
	}
	sum := Summary{TotalHours: "03:00:00", BillableHours: "01:00:00"}
	row := SummaryRow(cols, sum)
	assert.Equal(t, Record{
		FieldClient:        "",
		FieldTask:          SummaryLabel,
		FieldDuration:      "03:00:00",
		FieldTotalHours:    "03:00:00",
		FieldBillableHours: "01:00:00",
	}, row)

	sum.AllBillable = true
	assert.Equal(t, "03:00:00", SummaryRow(cols, sum)[FieldBillableHours])
}

// ============================================================
// Column projection
// ============================================================

func fields(cols []ColumnView) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Field
	}
	return out
}

func TestProjectColumnsDefaults(t *testing.T) {
	cols := ProjectColumns(DefaultColumns(), DefaultVisibility(), Summary{}, Selection{Client: AllClients}, 3)
	assert.Equal(t, []string{
		FieldUser, FieldClient, FieldProject, FieldTask, FieldDescription,
		FieldBillable, FieldStartDate, FieldDuration, FieldTags,
	}, fields(cols))
}

func TestProjectColumnsCompact(t *testing.T) {
	cols := ProjectColumns(DefaultColumns(), CompactVisibility(), Summary{}, Selection{Client: AllClients}, 3)
	assert.Equal(t, []string{FieldClient, FieldProject, FieldTask, FieldTotalHours, FieldBillableHours}, fields(cols))
	assert.Equal(t, LabelBillable, cols[len(cols)-1].Header)
}

func TestProjectColumnsAllBillable(t *testing.T) {
	cols := ProjectColumns(DefaultColumns(), CompactVisibility(), Summary{AllBillable: true}, Selection{}, 3)
	assert.NotContains(t, fields(cols), FieldTotalHours)
	assert.Equal(t, LabelWorkTime, cols[len(cols)-1].Header)

	// Labels are derived per call, never stored.
	again := ProjectColumns(DefaultColumns(), CompactVisibility(), Summary{}, Selection{}, 3)
	assert.Equal(t, LabelBillable, again[len(again)-1].Header)
	assert.Equal(t, LabelBillable, DefaultColumns()[9].Header)
}

func TestProjectColumnsSingleProjectClient(t *testing.T) {
	vis := DefaultVisibility()
	vis[KeyProject] = true
	raw := header + "Alice,Acme,Web,Design,x,Yes,2024-01-05,01:00:00,\n"
	res, err := Run(raw, Selection{Client: "Acme", Project: AllProjects}, vis)
	require.NoError(t, err)
	assert.NotContains(t, fields(res.Columns), FieldProject)

	cols := ProjectColumns(DefaultColumns(), vis, Summary{}, Selection{Client: AllClients}, 1)
	assert.Contains(t, fields(cols), FieldProject)
}

func TestProjectColumnsKeepsStaticOrder(t *testing.T) {
	vis := make(Visibility)
	for _, k := range VisibilityKeys() {
		vis[k] = true
	}
	cols := ProjectColumns(DefaultColumns(), vis, Summary{}, Selection{}, 2)
	var want []string
	for _, c := range DefaultColumns() {
		want = append(want, c.Field)
	}
	assert.Equal(t, want, fields(cols))
}

func TestProjectColumnsUnkeyedDefault(t *testing.T) {
	cols := []Column{{Field: "Extra", Header: "Extra", DefaultVisible: true}, {Field: "Hidden", Header: "Hidden"}}
	got := ProjectColumns(cols, Visibility{}, Summary{}, Selection{}, 0)
	assert.Equal(t, []string{"Extra"}, fields(got))
}

func TestDefaultVisibility(t *testing.T) {
	v := DefaultVisibility()
	assert.Len(t, v, 11)
	for _, k := range VisibilityKeys() {
		want := k != KeyTotalHours && k != KeyBillableHours
		assert.Equal(t, want, v[k], k)
	}
	assert.False(t, v.Grouped())
	assert.True(t, CompactVisibility().Grouped())
}

func TestVisibilityMerge(t *testing.T) {
	v := Visibility{KeyUser: true, "bogus": true}.Merge()
	assert.True(t, v[KeyUser])
	assert.True(t, v[KeyClient])
	assert.NotContains(t, v, "bogus")
	assert.Len(t, v, 11)
}

// ============================================================
// Pipeline
// ============================================================

func TestRunEndToEnd(t *testing.T) {
	raw := header +
		"Alice,Acme,Web,Design,Homepage,Yes,2024-01-05,01:30:00,\n" +
		"Bob,Acme,Web,Design,Footer,No,2024-01-06,00:30:00,\n" +
		"Bob,Acme,Shop,Build,Cart,Yes,2024-01-07,01:00:00,\n" +
		"Carol,Intern Web,Site,Admin,Wiki,No,2024-01-07,05:00:00,\n" +
		"Dan,Beta,App,Dev,Old,Yes,2023-12-31,01:00:00,\n" +
		"A,B,C\n"
	sel := Selection{Client: "Acme", Project: AllProjects, Dates: MonthRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
	res, err := Run(raw, sel, CompactVisibility())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, []string{"Acme"}, res.Clients)
	assert.Equal(t, []string{"Shop", "Web"}, res.Projects)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "03:00:00", res.Summary.TotalHours)
	assert.Equal(t, "02:30:00", res.Summary.BillableHours)
	assert.False(t, res.Summary.AllBillable)

	assert.Equal(t, []string{"Kunde", "Projekt", "Tätigkeit", "Gesamtzeit", "Abrechenbar"}, res.Headers())
	assert.Equal(t, [][]string{
		{"Acme", "Web", "Design", "02:00:00", "01:30:00"},
		{"Acme", "Shop", "Build", "01:00:00", "01:00:00"},
	}, res.Rows())
	assert.Equal(t, []string{"", "", SummaryLabel, "03:00:00", "02:30:00"}, res.SummaryRow())
}

func TestRunWithDescriptionsDoesNotGroup(t *testing.T) {
	raw := header +
		"Alice,Acme,Web,Design,Homepage,Yes,2024-01-05,01:30:00,\n" +
		"Bob,Acme,Web,Design,Footer,Yes,2024-01-06,00:30:00,\n"
	vis := CompactVisibility()
	vis[KeyDescription] = true
	res, err := Run(raw, Selection{}, vis)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Contains(t, res.Headers(), "Beschreibung")
	assert.True(t, res.Summary.AllBillable)
	assert.NotContains(t, res.Headers(), "Gesamtzeit")
	assert.Contains(t, res.Headers(), LabelWorkTime)
}

func TestRunMalformed(t *testing.T) {
	_, err := Run("a,b\n\"x,y\n", Selection{}, DefaultVisibility())
	assert.ErrorIs(t, err, ErrMalformedCSV)
}

// ============================================================
// Months
// ============================================================

func TestMonthHelpers(t *testing.T) {
	rng := MonthRange(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", FormatDate(rng.Start))
	assert.Equal(t, "2024-02-29", FormatDate(rng.End))
	assert.Equal(t, "März 2024", MonthLabel(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02", ShiftMonth(now, -1, now).Format("2006-01"))
	assert.Equal(t, "2024-03", ShiftMonth(now, 1, now).Format("2006-01"))
	assert.Equal(t, "2023-12", ShiftMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), -1, now).Format("2006-01"))

	m, err := ParseMonth("2024-07")
	require.NoError(t, err)
	assert.Equal(t, time.July, m.Month())
	_, err = ParseMonth("July")
	assert.Error(t, err)
}
