package store

import (
	"fmt"
	"time"
)

// RecordExport appends an export run to the history.
func (s *Store) RecordExport(kind, path string, documents int, cancelled bool) (*ExportRun, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO export_runs (kind, path, documents, cancelled, created_at) VALUES (?, ?, ?, ?, ?)`,
		kind, path, documents, cancelled, now,
	)
	if err != nil {
		return nil, fmt.Errorf("record export: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetExport(id)
}

func (s *Store) GetExport(id int64) (*ExportRun, error) {
	e := &ExportRun{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, kind, path, documents, cancelled, created_at FROM export_runs WHERE id = ?`, id,
	).Scan(&e.ID, &e.Kind, &e.Path, &e.Documents, &e.Cancelled, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get export %d: %w", id, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// ListExports returns the newest runs first. A limit of 0 returns all.
func (s *Store) ListExports(limit int) ([]ExportRun, error) {
	query := `SELECT id, kind, path, documents, cancelled, created_at FROM export_runs ORDER BY id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var runs []ExportRun
	for rows.Next() {
		var e ExportRun
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Path, &e.Documents, &e.Cancelled, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, e)
	}
	return runs, rows.Err()
}
