package store

import (
	"fmt"
	"strconv"

	"github.com/sadopc/togglreport/internal/report"
)

const (
	columnPrefix = "column."
	keyClient    = "filter.client"
	keyProject   = "filter.project"
	keyMonth     = "filter.month"
)

// Visibility returns the stored column visibility merged over the defaults.
func (s *Store) Visibility() (report.Visibility, error) {
	vis := make(report.Visibility)
	for _, key := range report.VisibilityKeys() {
		raw, err := s.SettingOr(columnPrefix+key, "")
		if err != nil {
			return nil, err
		}
		if raw == "" {
			continue
		}
		on, err := strconv.ParseBool(raw)
		if err != nil {
			continue
		}
		vis[key] = on
	}
	return vis.Merge(), nil
}

// SaveVisibility stores every known column key of vis.
func (s *Store) SaveVisibility(vis report.Visibility) error {
	for key, on := range vis.Merge() {
		if err := s.SetSetting(columnPrefix+key, strconv.FormatBool(on)); err != nil {
			return fmt.Errorf("save visibility: %w", err)
		}
	}
	return nil
}

// SetColumn switches one column on or off.
func (s *Store) SetColumn(key string, on bool) error {
	if _, ok := report.DefaultVisibility()[key]; !ok {
		return fmt.Errorf("unknown column %q", key)
	}
	return s.SetSetting(columnPrefix+key, strconv.FormatBool(on))
}

// ResetVisibility drops stored column overrides.
func (s *Store) ResetVisibility() error {
	for _, key := range report.VisibilityKeys() {
		if err := s.DeleteSetting(columnPrefix + key); err != nil {
			return err
		}
	}
	return nil
}

// Selection returns the last saved client, project and month.
func (s *Store) Selection() (SavedSelection, error) {
	var sel SavedSelection
	var err error
	if sel.Client, err = s.SettingOr(keyClient, report.AllClients); err != nil {
		return sel, err
	}
	if sel.Project, err = s.SettingOr(keyProject, report.AllProjects); err != nil {
		return sel, err
	}
	if sel.Month, err = s.SettingOr(keyMonth, ""); err != nil {
		return sel, err
	}
	return sel, nil
}

// SaveSelection stores the filter state. Empty client or project fall back
// to the sentinels.
func (s *Store) SaveSelection(sel SavedSelection) error {
	if sel.Client == "" {
		sel.Client = report.AllClients
	}
	if sel.Project == "" {
		sel.Project = report.AllProjects
	}
	for key, value := range map[string]string{keyClient: sel.Client, keyProject: sel.Project, keyMonth: sel.Month} {
		if err := s.SetSetting(key, value); err != nil {
			return fmt.Errorf("save selection: %w", err)
		}
	}
	return nil
}
