package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"

	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/store"
	"github.com/sadopc/togglreport/internal/toggl"
)

type pickKind int

const (
	pickNone pickKind = iota
	pickClient
	pickProject
)

type reportModel struct {
	ctx    context.Context
	store  *store.Store
	api    toggl.Reporter
	now    func() time.Time
	width  int
	height int

	month   time.Time
	client  string
	project string
	vis     report.Visibility

	records []report.Record
	result  *report.Result
	dropped int
	loading bool
	cached  bool
	err     error
	offset  int // first visible table row

	formActive bool
	form       *huh.Form
	picking    pickKind
	choice     *string

	chart barchart.Model
}

func newReportModel(ctx context.Context, s *store.Store, api toggl.Reporter, now func() time.Time) reportModel {
	choice := ""
	r := reportModel{
		ctx:     ctx,
		store:   s,
		api:     api,
		now:     now,
		month:   report.ShiftMonth(now(), 0, now()),
		client:  report.AllClients,
		project: report.AllProjects,
		vis:     report.DefaultVisibility(),
		choice:  &choice,
		chart:   barchart.New(60, 8),
	}

	log := zerolog.Ctx(ctx)
	if sel, err := s.Selection(); err != nil {
		log.Warn().Err(err).Msg("load saved selection")
	} else {
		r.client, r.project = sel.Client, sel.Project
		if m, err := report.ParseMonth(sel.Month); err == nil {
			r.month = report.ShiftMonth(m, 0, now())
		}
	}
	if vis, err := s.Visibility(); err != nil {
		log.Warn().Err(err).Msg("load column visibility")
	} else {
		r.vis = vis
	}
	return r
}

func (r *reportModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

// load fetches the month from the API. On failure the cached CSV of the same
// window is used if there is one.
func (r reportModel) load() tea.Cmd {
	if r.api == nil {
		return nil
	}
	api, s, ctx, month := r.api, r.store, r.ctx, r.month
	return func() tea.Msg {
		log := zerolog.Ctx(ctx)
		req := toggl.MonthRequest(month)

		raw, fetchErr := api.FetchCSV(ctx, req)
		cached := false
		if fetchErr == nil {
			if err := s.SaveReport(req.StartDate, req.EndDate, raw); err != nil {
				log.Warn().Err(err).Msg("cache report")
			}
		} else {
			log.Error().Err(fetchErr).Str("month", req.StartDate).Msg("fetch report")
			hit, err := s.CachedReport(req.StartDate, req.EndDate)
			if err != nil || hit == nil {
				return reportErrMsg{month: month, err: fetchErr}
			}
			raw, cached = hit.CSV, true
		}

		parsed, err := report.ParseString(raw)
		if err != nil {
			return reportErrMsg{month: month, err: err}
		}
		if parsed.Dropped > 0 {
			log.Debug().Int("dropped", parsed.Dropped).Msg("rows with mismatched field count")
		}
		return reportLoadedMsg{
			month:    month,
			records:  parsed.Records,
			dropped:  parsed.Dropped,
			cached:   cached,
			fetchErr: fetchErr,
		}
	}
}

func (r *reportModel) selection() report.Selection {
	return report.Selection{Client: r.client, Project: r.project, Dates: report.MonthRange(r.month)}
}

// recompute runs the pipeline for the current selection. A client or project
// that no longer occurs in the data falls back to the sentinel.
func (r *reportModel) recompute() {
	if r.records == nil {
		r.result = nil
		return
	}
	res := report.Evaluate(r.records, r.selection(), r.vis)
	if r.client != report.AllClients && !slices.Contains(res.Clients, r.client) {
		r.client, r.project = report.AllClients, report.AllProjects
		res = report.Evaluate(r.records, r.selection(), r.vis)
	} else if r.project != report.AllProjects && !slices.Contains(res.Projects, r.project) {
		r.project = report.AllProjects
		res = report.Evaluate(r.records, r.selection(), r.vis)
	}
	r.result = res
	if r.offset >= len(res.Records) {
		r.offset = 0
	}
	r.buildChart()
}

func (r reportModel) saveSelection() {
	sel := store.SavedSelection{Client: r.client, Project: r.project, Month: r.month.Format("2006-01")}
	if err := r.store.SaveSelection(sel); err != nil {
		zerolog.Ctx(r.ctx).Warn().Err(err).Msg("save selection")
	}
}

func (r reportModel) update(msg tea.Msg) (reportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if !msg.month.Equal(r.month) {
			return r, nil
		}
		r.loading = false
		r.records = msg.records
		r.dropped = msg.dropped
		r.cached = msg.cached
		r.err = msg.fetchErr
		r.recompute()
		return r, nil

	case reportErrMsg:
		if !msg.month.Equal(r.month) {
			return r, nil
		}
		r.loading = false
		r.err = msg.err
		r.records = nil
		r.recompute()
		return r, nil

	case columnsChangedMsg:
		r.vis = msg.vis
		r.recompute()
		return r, nil
	}

	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.PrevMonth):
			return r.shift(-1)
		case key.Matches(msg, keys.NextMonth):
			return r.shift(1)
		case key.Matches(msg, keys.Reload):
			r.loading = true
			return r, r.load()
		case key.Matches(msg, keys.Client):
			return r.showPicker(pickClient)
		case key.Matches(msg, keys.Project):
			return r.showPicker(pickProject)
		case key.Matches(msg, keys.Up):
			if r.offset > 0 {
				r.offset--
			}
		case key.Matches(msg, keys.Down):
			if r.result != nil && r.offset < len(r.result.Records)-1 {
				r.offset++
			}
		}
	}
	return r, nil
}

func (r reportModel) shift(n int) (reportModel, tea.Cmd) {
	next := report.ShiftMonth(r.month, n, r.now())
	if next.Equal(r.month) {
		return r, nil
	}
	r.month = next
	r.offset = 0
	r.loading = true
	r.saveSelection()
	return r, r.load()
}

func (r reportModel) showPicker(kind pickKind) (reportModel, tea.Cmd) {
	if r.result == nil {
		return r, nil
	}

	var title string
	var opts []huh.Option[string]
	switch kind {
	case pickClient:
		title = "Kunde"
		*r.choice = r.client
		opts = append(opts, huh.NewOption(report.AllClients, report.AllClients))
		for _, c := range r.result.Clients {
			opts = append(opts, huh.NewOption(c, c))
		}
	case pickProject:
		if r.client == report.AllClients {
			return r, func() tea.Msg { return statusMsg{text: "Select a client first", isError: true} }
		}
		title = "Projekt"
		*r.choice = r.project
		opts = append(opts, huh.NewOption(report.AllProjects, report.AllProjects))
		for _, p := range r.result.Projects {
			opts = append(opts, huh.NewOption(p, p))
		}
	}

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title(title).Options(opts...).Value(r.choice),
		),
	).WithShowHelp(true)
	r.picking = kind
	r.formActive = true
	return r, r.form.Init()
}

func (r reportModel) updateForm(msg tea.Msg) (reportModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		r.closeForm()
		return r, nil
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	switch r.form.State {
	case huh.StateCompleted:
		switch r.picking {
		case pickClient:
			if *r.choice != r.client {
				r.client = *r.choice
				r.project = report.AllProjects
			}
		case pickProject:
			r.project = *r.choice
		}
		r.closeForm()
		r.offset = 0
		r.recompute()
		r.saveSelection()
		return r, nil
	case huh.StateAborted:
		r.closeForm()
		return r, nil
	}
	return r, cmd
}

func (r *reportModel) closeForm() {
	r.formActive = false
	r.form = nil
	r.picking = pickNone
}

func (r *reportModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	r.chart = barchart.New(chartWidth, 8)
	if r.result == nil {
		return
	}

	bars := projectHours(r.result.Records)
	if len(bars) == 0 {
		return
	}
	style := lipgloss.NewStyle().Foreground(colorSecondary)
	data := make([]barchart.BarData, 0, len(bars))
	for _, b := range bars {
		data = append(data, barchart.BarData{
			Label:  truncate(b.project, 10),
			Values: []barchart.BarValue{{Name: b.project, Value: b.minutes / 60, Style: style}},
		})
	}
	r.chart.PushAll(data)
	r.chart.Draw()
}

type projectBar struct {
	project string
	minutes float64
}

// projectHours sums durations per project in first-seen order.
func projectHours(records []report.Record) []projectBar {
	var out []projectBar
	idx := make(map[string]int)
	for _, rec := range records {
		name := rec[report.FieldProject]
		if name == "" {
			name = "-"
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, projectBar{project: name})
		}
		out[i].minutes += report.ParseMinutes(rec[report.FieldDuration])
	}
	return out
}

func (r reportModel) tableLimit() int {
	// title, filter line, blank, chart, blank, table borders and header,
	// summary row, hints
	limit := r.height - 8 - 8 - 8
	if limit < 5 {
		limit = 5
	}
	return limit
}

func (r reportModel) view() string {
	w := r.width - 4

	title := titleStyle.Render("Tätigkeitsnachweis für " + report.MonthLabel(r.month))
	filter := mutedStyle.Render(fmt.Sprintf("Kunde: %s   Projekt: %s", r.client, r.project))

	if r.formActive && r.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, filter, "", r.form.View()),
		)
	}

	var body []string
	body = append(body, title, filter, "")

	switch {
	case r.api == nil:
		body = append(body, warningStyle.Render("Not logged in. Open the account view (3) to enter token and report id."))
	case r.loading && r.result == nil:
		body = append(body, mutedStyle.Render("Loading report..."))
	case r.result == nil && r.err != nil:
		body = append(body, errorStyle.Render(describeError(r.err)), mutedStyle.Render("r: retry"))
	case r.result == nil:
		body = append(body, mutedStyle.Render("No report loaded"))
	default:
		if r.cached {
			body = append(body, warningStyle.Render("Offline: showing cached report ("+describeError(r.err)+")"), "")
		}
		if len(r.result.Records) == 0 {
			body = append(body, mutedStyle.Render("No entries for this selection"))
		} else {
			body = append(body, r.chart.View(), "")
		}
		body = append(body, renderTable(r.result, r.offset, r.tableLimit(), w))
		body = append(body, r.summaryLine())
	}

	body = append(body, "", mutedStyle.Render("←/→: month  c: client  p: project  r: reload  e: export"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (r reportModel) summaryLine() string {
	sum := r.result.Summary
	line := fmt.Sprintf("%d Einträge   Gesamt %s (%s)   Abrechenbar %s",
		sum.TotalEntries, sum.TotalHours, formatHours(sum.TotalMinutes), sum.BillableDisplay())
	if r.dropped > 0 {
		line += warningStyle.Render(fmt.Sprintf("   %d rows skipped", r.dropped))
	}
	return highlightStyle.Render(line)
}

// renderTable draws rows[offset:offset+limit] followed by the summary row.
func renderTable(res *report.Result, offset, limit, width int) string {
	rows := res.Rows()
	if offset > len(rows) {
		offset = len(rows)
	}
	end := min(len(rows), offset+limit)
	visible := make([][]string, 0, end-offset+1)
	visible = append(visible, rows[offset:end]...)
	visible = append(visible, res.SummaryRow())
	summary := len(visible) - 1

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSubtle)).
		Headers(res.Headers()...).
		Rows(visible...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row == summary:
				return tableSummaryStyle
			case (row+offset)%2 == 1:
				return tableAltCellStyle
			}
			return tableCellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}

	out := t.Render()
	if end < len(rows) || offset > 0 {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("rows %d-%d of %d", offset+1, end, len(rows)))
	}
	return out
}

// describeError turns pipeline and API errors into a line for the status area.
func describeError(err error) string {
	var status *toggl.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, report.ErrMalformedCSV):
		return "The report could not be read (malformed CSV)"
	case errors.Is(err, toggl.ErrMissingCredentials):
		return "Token and report id are required"
	case errors.As(err, &status) && status.Unauthorized():
		return "Access denied: check token and report id"
	case errors.As(err, &status):
		return fmt.Sprintf("Toggl API answered with status %d", status.Code)
	case errors.Is(err, context.DeadlineExceeded):
		return "Toggl API timed out"
	}
	return "Request failed: " + err.Error()
}
