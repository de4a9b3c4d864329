package store

import (
	"encoding/base64"
	"fmt"

	"github.com/sadopc/togglreport/internal/toggl"
)

const (
	keyToken    = "auth.token"
	keyReportID = "auth.report_id"
)

// SaveCredentials stores both credential parts. The token is base64 encoded,
// which only keeps it from being read at a glance.
func (s *Store) SaveCredentials(c toggl.Credentials) error {
	if err := s.SetSetting(keyToken, base64.StdEncoding.EncodeToString([]byte(c.Token))); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	if err := s.SetSetting(keyReportID, c.ReportID); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Credentials returns the stored credentials. Missing parts are empty.
func (s *Store) Credentials() (toggl.Credentials, error) {
	enc, err := s.SettingOr(keyToken, "")
	if err != nil {
		return toggl.Credentials{}, err
	}
	token, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return toggl.Credentials{}, fmt.Errorf("decode stored token: %w", err)
	}
	reportID, err := s.SettingOr(keyReportID, "")
	if err != nil {
		return toggl.Credentials{}, err
	}
	return toggl.Credentials{Token: string(token), ReportID: reportID}, nil
}

// ClearToken forgets the API token and keeps the report id.
func (s *Store) ClearToken() error {
	return s.DeleteSetting(keyToken)
}

// ClearReportID forgets the report id and keeps the token.
func (s *Store) ClearReportID() error {
	return s.DeleteSetting(keyReportID)
}

// ClearCredentials forgets both parts.
func (s *Store) ClearCredentials() error {
	if err := s.ClearToken(); err != nil {
		return err
	}
	return s.ClearReportID()
}
