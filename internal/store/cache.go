package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveReport stores raw CSV for the window, replacing any earlier fetch.
func (s *Store) SaveReport(startDate, endDate, csv string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO report_cache (start_date, end_date, csv, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(start_date, end_date) DO UPDATE SET csv = excluded.csv, fetched_at = excluded.fetched_at`,
		startDate, endDate, csv, now,
	)
	if err != nil {
		return fmt.Errorf("cache report: %w", err)
	}
	return nil
}

// CachedReport returns the stored CSV for the window, or nil if there is none.
func (s *Store) CachedReport(startDate, endDate string) (*CachedReport, error) {
	r := &CachedReport{}
	var fetchedAt string
	err := s.db.QueryRow(
		`SELECT start_date, end_date, csv, fetched_at FROM report_cache WHERE start_date = ? AND end_date = ?`,
		startDate, endDate,
	).Scan(&r.StartDate, &r.EndDate, &r.CSV, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached report: %w", err)
	}
	r.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
	return r, nil
}

// PruneReports removes cached reports fetched before cutoff.
func (s *Store) PruneReports(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM report_cache WHERE fetched_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	return res.RowsAffected()
}
