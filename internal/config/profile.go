package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/sadopc/togglreport/internal/toggl"
)

const (
	DefaultProfile     = "default"
	defaultProfilePath = "~/.togglrc"
)

// DefaultProfilePath returns the default credential profile file.
func DefaultProfilePath() string {
	return defaultProfilePath
}

// Profiles lists the sections of the profile file that carry keys.
func Profiles(path string) ([]string, error) {
	cfg, err := loadProfiles(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, section := range cfg.Sections() {
		if len(section.Keys()) > 0 {
			names = append(names, section.Name())
		}
	}
	return names, nil
}

// LoadProfile reads token and report_id from one profile section.
func LoadProfile(path, profile string) (toggl.Credentials, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	cfg, err := loadProfiles(path)
	if err != nil {
		return toggl.Credentials{}, err
	}
	section, err := cfg.GetSection(profile)
	if err != nil {
		return toggl.Credentials{}, fmt.Errorf("profile %s not found: %w", profile, err)
	}
	creds := toggl.Credentials{
		Token:    section.Key("token").String(),
		ReportID: section.Key("report_id").String(),
	}
	if !creds.Complete() {
		return toggl.Credentials{}, fmt.Errorf("profile %s: token and report_id are required", profile)
	}
	return creds, nil
}

func loadProfiles(path string) (*ini.File, error) {
	if path == "" {
		path = defaultProfilePath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ini.Load(resolved)
	if err != nil {
		return nil, fmt.Errorf("unable to load profile file: %w", err)
	}
	return cfg, nil
}
