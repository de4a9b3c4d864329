package store

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/togglreport/internal/toggl"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return FromDB(db), mock
}

func TestSaveCredentialsWriteError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO settings`)).
		WillReturnError(errors.New("disk full"))

	err := s.SaveCredentials(toggl.Credentials{Token: "t", ReportID: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save credentials")
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialsReadError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM settings WHERE key = ?`)).
		WithArgs(keyToken).
		WillReturnError(errors.New("database is locked"))

	_, err := s.Credentials()
	assert.ErrorContains(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedReportQueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT start_date, end_date, csv, fetched_at FROM report_cache`)).
		WithArgs("2024-01-01", "2024-01-31").
		WillReturnError(errors.New("io error"))

	r, err := s.CachedReport("2024-01-01", "2024-01-31")
	assert.Nil(t, r)
	assert.ErrorContains(t, err, "get cached report")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExportsScanError(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"id", "kind", "path", "documents", "cancelled", "created_at"}).
		AddRow("not-a-number", "pdf", "/x.pdf", 1, false, "2024-01-01T00:00:00Z")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, kind, path, documents, cancelled, created_at FROM export_runs`)).
		WillReturnRows(rows)

	_, err := s.ListExports(0)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateReadVersionError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`PRAGMA user_version`)).
		WillReturnError(errors.New("not a database"))

	err := s.migrate()
	assert.ErrorContains(t, err, "read user_version")
}
