package toggl

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/togglreport/internal/report"
)

// Credentials identify the user and the shared report to read.
type Credentials struct {
	Token    string
	ReportID string
}

// Complete reports whether both parts are set.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.ReportID) != ""
}

// User is the subset of /api/v9/me the tool shows.
type User struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// ReportRequest is the body of a shared-report CSV export.
type ReportRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	OrderField string `json:"order_field"`
	OrderDesc  bool   `json:"order_desc"`
}

// MonthRequest asks for every entry of t's month, newest first.
func MonthRequest(t time.Time) ReportRequest {
	return RangeRequest(report.MonthRange(t))
}

// RangeRequest asks for every entry of rng, newest first.
func RangeRequest(rng report.DateRange) ReportRequest {
	return ReportRequest{
		StartDate:  report.FormatDate(rng.Start),
		EndDate:    report.FormatDate(rng.End),
		OrderField: "date",
		OrderDesc:  true,
	}
}

var (
	// ErrInvalidToken means the API token was rejected.
	ErrInvalidToken = errors.New("invalid api token")
	// ErrInvalidReportID means the token works but the report cannot be read.
	ErrInvalidReportID = errors.New("invalid report id")
	// ErrMissingCredentials is returned before any request when token or report id is empty.
	ErrMissingCredentials = errors.New("token and report id are required")
)

// StatusError is a non-2xx answer from the API or the relay.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Unauthorized reports whether the status is an authentication failure.
func (e *StatusError) Unauthorized() bool {
	return e.Code == 401 || e.Code == 403
}
