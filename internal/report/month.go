package report

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthRange returns the window from the first to the last day of t's month.
func MonthRange(t time.Time) DateRange {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: first, End: first.AddDate(0, 1, -1)}
}

// MonthLabel formats t as "März 2024".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// ShiftMonth moves t by n months, pinned to the first of the month. Months
// after now are rejected by returning the month of now.
func ShiftMonth(t time.Time, n int, now time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	shifted := first.AddDate(0, n, 0)
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if shifted.After(current) {
		return current
	}
	return shifted
}

// FormatDate renders a calendar day the way the upstream API expects it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseMonth reads a "2006-01" month value.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return t, nil
}
