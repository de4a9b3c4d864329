package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/togglreport/internal/export"
	"github.com/sadopc/togglreport/internal/report"
	"github.com/sadopc/togglreport/internal/toggl"
)

// viewState represents the currently active view.
type viewState int

const (
	viewReport viewState = iota
	viewColumns
	viewAccount
)

var viewNames = []string{"Report", "Columns", "Account"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// reportLoadedMsg carries the parsed CSV of one month. fetchErr is set when
// the API failed and the records come from the cache.
type reportLoadedMsg struct {
	month    time.Time
	records  []report.Record
	dropped  int
	cached   bool
	fetchErr error
}

type reportErrMsg struct {
	month time.Time
	err   error
}

type columnsChangedMsg struct {
	vis report.Visibility
}

type loginDoneMsg struct {
	client toggl.Reporter
	user   *toggl.User
	err    error
}

type logoutMsg struct{}

type bulkProgressMsg export.Progress

// bulkFailedMsg ends a bulk export that produced no archive.
type bulkFailedMsg struct{ text string }

type exportDoneMsg struct {
	path      string
	documents int
	cancelled bool
}

// --- Helpers ---

func formatHours(minutes float64) string {
	return fmt.Sprintf("%.1fh", minutes/60)
}

// mask keeps the last four characters of a secret.
func mask(s string) string {
	if s == "" {
		return "-"
	}
	if len(s) <= 4 {
		return strings.Repeat("•", len(s))
	}
	return strings.Repeat("•", 8) + s[len(s)-4:]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
