// Package tui is the Bubble Tea front end: the monthly report table with
// client and project filters, the column toggles, the login form and the
// export picker with bulk progress.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sadopc/togglreport/internal/export"
	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/store"
	"github.com/sadopc/togglreport/internal/toggl"
)

// Options configures the App.
type Options struct {
	// Client is used for fetching reports. Nil starts in the account view.
	Client    toggl.Reporter
	Connect   ConnectFunc
	OutputDir string
	Logo      *export.Logo
	BulkDelay time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type exportFormat int

const (
	exportPDF exportFormat = iota
	exportZIP
	exportCSV
	exportJSON
)

var exportFormats = []string{
	"PDF (current selection)",
	"ZIP (all clients, one PDF each)",
	"CSV (current selection)",
	"JSON (current selection)",
}

// bulkRun is a running ZIP export. It is shared between App copies.
type bulkRun struct {
	cancel  context.CancelFunc
	updates chan tea.Msg
	current export.Progress
	bar     progress.Model
}

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	store  *store.Store
	opts   Options
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	bulk          *bulkRun

	report  reportModel
	columns columnsModel
	account accountModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the root model. ctx carries the logger and bounds every API
// call made by the UI.
func NewApp(ctx context.Context, s *store.Store, opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := help.New()
	h.ShowAll = false

	app := App{
		ctx:        ctx,
		store:      s,
		opts:       opts,
		activeView: viewReport,
		report:     newReportModel(ctx, s, opts.Client, opts.Now),
		columns:    newColumnsModel(ctx, s),
		account:    newAccountModel(ctx, s, opts.Connect),
		help:       h,
	}
	if opts.Client == nil {
		app.activeView = viewAccount
	} else {
		app.report.loading = true
	}
	return app
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.columns.refresh(), a.account.refresh()}
	if a.report.api != nil {
		cmds = append(cmds, a.report.load())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.report.setSize(a.width, contentHeight)
		a.columns.setSize(a.width, contentHeight)
		a.account.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.bulk != nil {
			if key.Matches(msg, keys.Back) || msg.String() == "ctrl+c" {
				a.bulk.cancel()
				a.status = "Cancelling export..."
				a.statusErr = false
			}
			return a, nil
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewReport
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewColumns
			return a, a.columns.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewAccount
			return a, a.account.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case reportLoadedMsg, reportErrMsg:
		var cmd tea.Cmd
		a.report, cmd = a.report.update(msg)
		if m, ok := msg.(reportErrMsg); ok && m.month.Equal(a.report.month) {
			a.status = describeError(m.err)
			a.statusErr = true
		}
		return a, cmd

	case columnsChangedMsg:
		a.columns, _ = a.columns.update(msg)
		a.report, _ = a.report.update(msg)
		return a, nil

	case loginDoneMsg:
		var cmd tea.Cmd
		a.account, cmd = a.account.update(msg)
		if msg.err != nil {
			a.status = loginError(msg.err)
			a.statusErr = true
			return a, cmd
		}
		a.report.api = msg.client
		a.report.loading = true
		a.activeView = viewReport
		a.status = "Logged in"
		if msg.user != nil {
			a.status += " as " + msg.user.Fullname
		}
		a.statusErr = false
		return a, tea.Batch(cmd, a.report.load())

	case logoutMsg:
		var cmd tea.Cmd
		a.account, cmd = a.account.update(msg)
		a.report.api = nil
		a.report.records = nil
		a.report.recompute()
		a.status = "Logged out"
		a.statusErr = false
		return a, cmd

	case bulkProgressMsg:
		if a.bulk == nil {
			return a, nil
		}
		a.bulk.current = export.Progress(msg)
		return a, waitBulk(a.bulk.updates)

	case bulkFailedMsg:
		a.bulk = nil
		a.exportPicking = false
		a.status = msg.text
		a.statusErr = true
		return a, nil

	case exportDoneMsg:
		a.bulk = nil
		a.exportPicking = false
		a.statusErr = false
		switch {
		case msg.cancelled && msg.path == "":
			a.status = "Export cancelled"
		case msg.cancelled:
			a.status = fmt.Sprintf("Export cancelled, %d documents saved to %s", msg.documents, msg.path)
		default:
			a.status = "Exported to " + msg.path
		}
		return a, a.account.refresh()
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewReport:
		a.report, cmd = a.report.update(msg)
	case viewColumns:
		a.columns, cmd = a.columns.update(msg)
	case viewAccount:
		a.account, cmd = a.account.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewReport:
		return a.report.formActive
	case viewAccount:
		return a.account.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewColumns:
		return a.columns.refresh()
	case viewAccount:
		return a.account.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewReport:
		content = a.report.view()
	case viewColumns:
		content = a.columns.view()
	case viewAccount:
		content = a.account.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	switch {
	case a.bulk != nil:
		content = a.renderBulk()
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("togglreport")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  "+a.outputDir()))
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) renderBulk() string {
	p := a.bulk.current
	bar := a.bulk.bar
	bar.Width = max(10, a.width-12)

	label := "Preparing..."
	if p.Total > 0 {
		label = fmt.Sprintf("%d / %d  %s", p.Current, p.Total, p.Client)
		if p.Project != report.AllProjects {
			label += " / " + p.Project
		}
	}

	rows := []string{
		titleStyle.Render("Bulk export"),
		"",
		bar.ViewAs(float64(p.Percent()) / 100),
		"",
		mutedStyle.Render(label),
		"",
		mutedStyle.Render("esc: cancel"),
	}
	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		if a.report.records == nil {
			a.status = "No report loaded"
			a.statusErr = true
			return a, nil
		}
		if exportFormat(a.exportCursor) == exportZIP {
			if len(export.Targets(a.report.records, a.report.month)) == 0 {
				a.status = "Nothing to export for this month"
				a.statusErr = true
				return a, nil
			}
			return a.startBulk()
		}
		return a, a.doExport(exportFormat(a.exportCursor))
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) outputDir() string {
	if a.opts.OutputDir != "" {
		return a.opts.OutputDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// doExport writes the current selection as a single document.
func (a App) doExport(format exportFormat) tea.Cmd {
	r := a.report
	doc := export.NewDocument(r.records, r.client, r.project, r.month, r.vis)
	dir, s, logo, log := a.outputDir(), a.store, a.opts.Logo, zerolog.Ctx(a.ctx)

	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		base := strings.TrimSuffix(doc.Filename(), ".pdf")
		var path, kind string
		var err error
		switch format {
		case exportPDF:
			path, kind = filepath.Join(dir, base+".pdf"), store.ExportPDF
			err = export.ToPDF(doc, path, export.PDFOptions{Logo: logo})
		case exportCSV:
			path, kind = filepath.Join(dir, base+".csv"), store.ExportCSV
			err = export.ToCSV(doc.Result, path)
		case exportJSON:
			path, kind = filepath.Join(dir, base+".json"), store.ExportJSON
			err = export.ToJSON(doc, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", strings.ToUpper(kind), err), isError: true}
		}

		if _, err := s.RecordExport(kind, path, 1, false); err != nil {
			log.Warn().Err(err).Msg("record export")
		}
		log.Info().Str("path", path).Msg("exported")
		return exportDoneMsg{path: path, documents: 1}
	}
}

// startBulk renders every client of the month into one ZIP in the
// background. Progress and the final result arrive through run.updates.
func (a App) startBulk() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(a.ctx)
	run := &bulkRun{
		cancel:  cancel,
		updates: make(chan tea.Msg),
		bar:     progress.New(progress.WithDefaultGradient()),
	}
	a.bulk = run
	a.status = ""

	r := a.report
	records, month, vis := r.records, r.month, r.vis
	dir, s, log := a.outputDir(), a.store, zerolog.Ctx(a.ctx)
	opts := export.BulkOptions{
		Month:      month,
		Visibility: vis,
		PDF:        export.PDFOptions{Logo: a.opts.Logo},
		Delay:      a.opts.BulkDelay,
		OnProgress: func(p export.Progress) {
			select {
			case run.updates <- bulkProgressMsg(p):
			case <-ctx.Done():
			}
		},
	}

	go func() {
		defer close(run.updates)
		defer cancel()
		run.updates <- bulkExport(ctx, s, records, dir, opts, log)
	}()
	return a, waitBulk(run.updates)
}

func bulkExport(ctx context.Context, s *store.Store, records []report.Record, dir string, opts export.BulkOptions, log *zerolog.Logger) tea.Msg {
	res, err := export.Bulk(ctx, records, opts)
	if err != nil {
		return bulkFailedMsg{text: fmt.Sprintf("Bulk export error: %v", err)}
	}
	if len(res.Files) == 0 {
		if res.Cancelled {
			return exportDoneMsg{cancelled: true}
		}
		return bulkFailedMsg{text: "Nothing to export for this month"}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return bulkFailedMsg{text: fmt.Sprintf("Export error: %v", err)}
	}
	path := filepath.Join(dir, export.ZipName(opts.Month))
	if err := export.ToZIP(res.Files, path); err != nil {
		return bulkFailedMsg{text: fmt.Sprintf("ZIP error: %v", err)}
	}
	if _, err := s.RecordExport(store.ExportZIP, path, len(res.Files), res.Cancelled); err != nil {
		log.Warn().Err(err).Msg("record export")
	}
	log.Info().Str("path", path).Int("documents", len(res.Files)).Bool("cancelled", res.Cancelled).Msg("bulk export")
	return exportDoneMsg{path: path, documents: len(res.Files), cancelled: res.Cancelled}
}

// waitBulk delivers the next message of a running bulk export.
func waitBulk(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
