package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sadopc/togglreport/internal/store"
	"github.com/sadopc/togglreport/internal/toggl"
)

// ConnectFunc builds a client for creds and checks both credentials against
// the API.
type ConnectFunc func(ctx context.Context, creds toggl.Credentials) (toggl.Reporter, *toggl.User, error)

// accountModel shows the stored credentials and recent exports and hosts the
// login form.
type accountModel struct {
	ctx     context.Context
	store   *store.Store
	connect ConnectFunc
	width   int
	height  int

	creds   toggl.Credentials
	user    *toggl.User
	exports []store.ExportRun
	err     error

	formActive bool
	form       *huh.Form
	validating bool

	// Form values as pointers (survive value copies)
	token    *string
	reportID *string
}

func newAccountModel(ctx context.Context, s *store.Store, connect ConnectFunc) accountModel {
	token, reportID := "", ""
	return accountModel{
		ctx:      ctx,
		store:    s,
		connect:  connect,
		token:    &token,
		reportID: &reportID,
	}
}

func (a *accountModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type accountDataMsg struct {
	creds   toggl.Credentials
	exports []store.ExportRun
}

func (a accountModel) refresh() tea.Cmd {
	s := a.store
	return func() tea.Msg {
		creds, err := s.Credentials()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load credentials: %v", err), isError: true}
		}
		exports, err := s.ListExports(5)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load export history: %v", err), isError: true}
		}
		return accountDataMsg{creds: creds, exports: exports}
	}
}

func (a accountModel) update(msg tea.Msg) (accountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountDataMsg:
		a.creds = msg.creds
		a.exports = msg.exports
		return a, nil

	case loginDoneMsg:
		a.validating = false
		a.err = msg.err
		if msg.err == nil {
			a.user = msg.user
		}
		return a, a.refresh()

	case logoutMsg:
		a.user = nil
		a.err = nil
		return a, a.refresh()
	}

	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter):
			return a.showForm()
		case key.Matches(msg, keys.Logout):
			return a, a.logout()
		}
	}
	return a, nil
}

func (a accountModel) showForm() (accountModel, tea.Cmd) {
	*a.token = a.creds.Token
	*a.reportID = a.creds.ReportID

	required := func(label string) func(string) error {
		return func(v string) error {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		}
	}

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("API token").
				EchoMode(huh.EchoModePassword).
				Validate(required("token")).
				Value(a.token),
			huh.NewInput().Title("Shared report id").
				Validate(required("report id")).
				Value(a.reportID),
		).Title("Toggl Track"),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a accountModel) updateForm(msg tea.Msg) (accountModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		a.formActive = false
		a.form = nil
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.formActive = false
		a.form = nil
		a.validating = true
		creds := toggl.Credentials{
			Token:    strings.TrimSpace(*a.token),
			ReportID: strings.TrimSpace(*a.reportID),
		}
		return a, a.login(creds)
	case huh.StateAborted:
		a.formActive = false
		a.form = nil
		return a, nil
	}
	return a, cmd
}

// login validates creds and stores them. A rejected token or report id is
// cleared so the next attempt starts from the other, valid field.
func (a accountModel) login(creds toggl.Credentials) tea.Cmd {
	s, connect, ctx := a.store, a.connect, a.ctx
	return func() tea.Msg {
		log := zerolog.Ctx(ctx)
		if connect == nil {
			return loginDoneMsg{err: errors.New("no api connection configured")}
		}
		if err := s.SaveCredentials(creds); err != nil {
			return loginDoneMsg{err: err}
		}

		client, user, err := connect(ctx, creds)
		switch {
		case errors.Is(err, toggl.ErrInvalidToken):
			if cerr := s.ClearToken(); cerr != nil {
				log.Warn().Err(cerr).Msg("clear token")
			}
			return loginDoneMsg{err: err}
		case errors.Is(err, toggl.ErrInvalidReportID):
			if cerr := s.ClearReportID(); cerr != nil {
				log.Warn().Err(cerr).Msg("clear report id")
			}
			return loginDoneMsg{err: err}
		case err != nil:
			return loginDoneMsg{err: err}
		}
		log.Info().Str("user", user.Email).Msg("logged in")
		return loginDoneMsg{client: client, user: user}
	}
}

func (a accountModel) logout() tea.Cmd {
	s := a.store
	return func() tea.Msg {
		if err := s.ClearCredentials(); err != nil {
			return statusMsg{text: fmt.Sprintf("Logout: %v", err), isError: true}
		}
		return logoutMsg{}
	}
}

func (a accountModel) view() string {
	w := a.width - 4
	title := titleStyle.Render("Account")

	if a.formActive && a.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", a.form.View()),
		)
	}

	label := func(s string) string { return lipgloss.NewStyle().Width(16).Render(s) }
	rows := []string{title, ""}
	rows = append(rows, "  "+label("Token")+highlightStyle.Render(mask(a.creds.Token)))
	rows = append(rows, "  "+label("Report id")+highlightStyle.Render(orDash(a.creds.ReportID)))

	switch {
	case a.validating:
		rows = append(rows, "", mutedStyle.Render("  Checking credentials..."))
	case a.err != nil:
		rows = append(rows, "", errorStyle.Render("  "+loginError(a.err)))
	case a.user != nil:
		rows = append(rows, "", successStyle.Render(fmt.Sprintf("  Logged in as %s <%s>", a.user.Fullname, a.user.Email)))
	}

	if len(a.exports) > 0 {
		rows = append(rows, "", subtitleStyle.Render("Recent exports"))
		for _, e := range a.exports {
			line := fmt.Sprintf("  %s  %-4s %3d  %s", e.CreatedAt.Format("02.01.2006 15:04"), e.Kind, e.Documents, e.Path)
			if e.Cancelled {
				line += warningStyle.Render(" (cancelled)")
			}
			rows = append(rows, mutedStyle.Render(line))
		}
	}

	rows = append(rows, "", mutedStyle.Render("enter: login  x: logout"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func loginError(err error) string {
	switch {
	case errors.Is(err, toggl.ErrInvalidToken):
		return "API token rejected. The stored token was cleared."
	case errors.Is(err, toggl.ErrInvalidReportID):
		return "Report id rejected. The stored report id was cleared."
	}
	return describeError(err)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
