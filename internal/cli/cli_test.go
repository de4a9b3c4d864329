package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/store"
	"github.com/sadopc/togglreport/internal/toggl"
)

const sampleCSV = "User,Client,Project,Task,Description,Billable,Start date,Duration,Tags\n" +
	"Anna,Acme,Web,Design,Mockups,Yes,2024-03-04,01:00:00,\n" +
	"Ben,Acme,Web,Design,Review,No,2024-03-05,01:00:00,\n" +
	"Anna,Acme,Shop,Build,Cart,Yes,2024-03-06,01:30:00,\n" +
	"Cara,Beta GmbH,App,Support,Tickets,Yes,2024-03-07,00:30:00,\n" +
	"Dan,Interne Zeit,Orga,Meeting,Weekly,No,2024-03-08,01:00:00,\n"

type testEnv struct {
	dir     string
	cfgPath string
	dbPath  string
	outDir  string
	fetches atomic.Int32
}

// newTestEnv starts a fake Toggl API accepting token "good" and report "rep"
// and writes a config file pointing at it.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{dir: t.TempDir()}
	e.dbPath = filepath.Join(e.dir, "data", "togglreport.db")
	e.outDir = filepath.Join(e.dir, "out")

	good := "Basic " + base64.StdEncoding.EncodeToString([]byte("good:api_token"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != good {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch {
		case r.URL.Path == "/api/v9/me":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"fullname":"Anna","email":"anna@example.com"}`))
		case r.URL.Path == "/reports/api/v3/shared/rep/csv":
			e.fetches.Add(1)
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(sampleCSV))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	e.cfgPath = filepath.Join(e.dir, "config.toml")
	cfg := "api_base_url = \"" + srv.URL + "\"\n" +
		"db_path = \"" + filepath.ToSlash(e.dbPath) + "\"\n" +
		"output_dir = \"" + filepath.ToSlash(e.outDir) + "\"\n" +
		"bulk_delay = \"0s\"\n" +
		"log_level = \"error\"\n"
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(cfg), 0o644))
	return e
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := NewCLI(Options{Output: &out, Errors: &errOut})
	err := c.Execute(context.Background(), append([]string{"--config", e.cfgPath}, args...)...)
	return out.String(), err
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	_, err := e.run(t, "login", "--token", "good", "--report-id", "rep")
	require.NoError(t, err)
}

func (e *testEnv) store(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(e.dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// login / logout
// ============================================================

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	out, err := e.run(t, "login", "--token", "good", "--report-id", "rep")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Anna <anna@example.com>")

	creds, err := e.store(t).Credentials()
	require.NoError(t, err)
	assert.Equal(t, toggl.Credentials{Token: "good", ReportID: "rep"}, creds)
}

func TestLoginInvalidTokenClearsToken(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "login", "--token", "bad", "--report-id", "rep")
	require.Error(t, err)
	assert.ErrorIs(t, err, toggl.ErrInvalidToken)

	creds, err := e.store(t).Credentials()
	require.NoError(t, err)
	assert.Empty(t, creds.Token)
	assert.Equal(t, "rep", creds.ReportID)
}

func TestLoginInvalidReportIDClearsReportID(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "login", "--token", "good", "--report-id", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, toggl.ErrInvalidReportID)

	creds, err := e.store(t).Credentials()
	require.NoError(t, err)
	assert.Equal(t, "good", creds.Token)
	assert.Empty(t, creds.ReportID)
}

func TestLoginFromProfile(t *testing.T) {
	e := newTestEnv(t)
	profiles := filepath.Join(e.dir, "togglrc")
	require.NoError(t, os.WriteFile(profiles, []byte("[work]\ntoken = good\nreport_id = rep\n"), 0o600))

	out, err := e.run(t, "login", "--profile", "work", "--profile-file", profiles)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Anna")

	_, err = e.run(t, "login", "--profile", "home", "--profile-file", profiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: work")
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	_, err := e.run(t, "logout")
	require.NoError(t, err)

	creds, err := e.store(t).Credentials()
	require.NoError(t, err)
	assert.False(t, creds.Complete())
}

// ============================================================
// report
// ============================================================

func TestReportTable(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, err := e.run(t, "report", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Tätigkeitsnachweis für März 2024")
	assert.Contains(t, out, report.SummaryLabel)
	assert.Contains(t, out, "04:00:00")
	assert.NotContains(t, out, "Interne Zeit")
}

func TestReportCSVForClient(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, err := e.run(t, "report", "--month", "2024-03", "--client", "Beta GmbH", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.NotContains(t, lines[0], "Projekt", "single-project client hides the project column")
	assert.Contains(t, lines[2], "00:30:00")
}

func TestReportJSON(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, err := e.run(t, "report", "--month", "2024-03", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"month": "2024-03"`)
}

func TestReportDateWindow(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, err := e.run(t, "report", "--from", "2024-03-06", "--to", "2024-03-07", "--format", "csv")
	require.NoError(t, err)
	assert.NotContains(t, out, "Web")
	assert.Contains(t, out, "Shop")

	_, err = e.run(t, "report", "--from", "2024-03-07", "--to", "2024-03-01")
	assert.Error(t, err)
}

func TestReportOfflineUsesCache(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	_, err := e.run(t, "report", "--month", "2024-03")
	require.NoError(t, err)
	fetched := e.fetches.Load()

	out, err := e.run(t, "report", "--month", "2024-03", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, report.SummaryLabel)
	assert.Equal(t, fetched, e.fetches.Load(), "offline must not hit the API")

	_, err = e.run(t, "report", "--month", "2024-02", "--offline")
	assert.Error(t, err)
}

func TestReportRequiresLogin(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "report", "--month", "2024-03")
	require.Error(t, err)
	assert.ErrorIs(t, err, toggl.ErrMissingCredentials)
}

func TestReportRejectsBadInput(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	_, err := e.run(t, "report", "--month", "2999-01")
	assert.ErrorContains(t, err, "future")

	_, err = e.run(t, "report", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

// ============================================================
// export / history
// ============================================================

func TestExportFormats(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	for _, kind := range []string{"pdf", "csv", "json"} {
		out, err := e.run(t, "export", kind, "--month", "2024-03", "--client", "Acme", "--project", "Web")
		require.NoError(t, err, kind)
		path := strings.TrimSpace(out)
		assert.Equal(t, "Tätigkeitsnachweis_Acme_Web_2024-03."+kind, filepath.Base(path))
		assert.FileExists(t, path)
	}

	out, err := e.run(t, "history")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "Tätigkeitsnachweis_Acme_Web"))
}

func TestExportZIP(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, err := e.run(t, "export", "zip", "--month", "2024-03")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, "Tätigkeitsnachweise_2024-03.zip", filepath.Base(path))
	assert.FileExists(t, path)

	runs, err := e.store(t).ListExports(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Documents)
	assert.False(t, runs[0].Cancelled)
}

func TestExportRejectsUnknownKind(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.run(t, "export", "docx")
	assert.Error(t, err)
}

func TestHistoryEmpty(t *testing.T) {
	e := newTestEnv(t)
	out, err := e.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No exports yet")
}

// ============================================================
// columns / config
// ============================================================

func TestColumns(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "columns")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] kunde")
	assert.Contains(t, out, "[x] beschreibung")
	assert.Contains(t, out, "[ ] gesamtstunden")

	out, err = e.run(t, "columns", "set", "beschreibung", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] beschreibung")

	_, err = e.run(t, "columns", "set", "nope", "on")
	assert.Error(t, err)

	out, err = e.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "column.beschreibung = false")

	out, err = e.run(t, "columns", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] beschreibung")
}

func TestColumnsCompactGroupsReport(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	out, err := e.run(t, "report", "--month", "2024-03", "--format", "csv")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6, "one row per entry by default")

	out, err = e.run(t, "columns", "compact")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] beschreibung")
	assert.Contains(t, out, "[x] gesamtstunden")

	out, err = e.run(t, "report", "--month", "2024-03", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5, "Acme Web Design is merged")
	assert.Equal(t, "Kunde,Projekt,Tätigkeit,Gesamtzeit,Abrechenbar", lines[0])
}

func TestConfigInitAndShow(t *testing.T) {
	e := newTestEnv(t)
	target := filepath.Join(e.dir, "fresh", "config.toml")

	var out bytes.Buffer
	c := NewCLI(Options{Output: &out, Errors: &bytes.Buffer{}})
	require.NoError(t, c.Execute(context.Background(), "--config", target, "config", "init"))
	assert.FileExists(t, target)

	c = NewCLI(Options{Output: &out, Errors: &bytes.Buffer{}})
	err := c.Execute(context.Background(), "--config", target, "config", "init")
	assert.ErrorContains(t, err, "--force")

	showOut, err := e.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, showOut, "bulk_delay   = 0s")
}

// ============================================================
// helpers
// ============================================================

func TestParseSwitch(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "show": true, "true": true, "off": false, "hide": false, "0": false} {
		got, err := parseSwitch(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseSwitch("maybe")
	assert.Error(t, err)
}

func TestMonthFlag(t *testing.T) {
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)

	m, err := monthFlag("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), m)

	m, err = monthFlag("2023-12", now)
	require.NoError(t, err)
	assert.Equal(t, time.December, m.Month())

	_, err = monthFlag("2024-04", now)
	assert.Error(t, err)

	_, err = monthFlag("März", now)
	assert.Error(t, err)
}
