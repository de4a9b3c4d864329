package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrExists is returned by Save when the file is present and force is false.
var ErrExists = errors.New("config file already exists")

type fileConfig struct {
	APIBaseURL string `toml:"api_base_url"`
	UseRelay   bool   `toml:"use_relay"`
	RelayAddr  string `toml:"relay_addr"`
	OutputDir  string `toml:"output_dir"`
	LogoPath   string `toml:"logo_path"`
	DBPath     string `toml:"db_path"`
	BulkDelay  string `toml:"bulk_delay"`
	LogLevel   string `toml:"log_level"`
}

// Save writes cfg as TOML to path (DefaultPath when empty), creating
// directories as needed. It returns the resolved path.
func Save(path string, cfg Config, force bool) (string, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if !force {
		if _, err := os.Stat(resolved); err == nil {
			return resolved, ErrExists
		}
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	bytes, err := toml.Marshal(fileConfig{
		APIBaseURL: cfg.APIBaseURL,
		UseRelay:   cfg.UseRelay,
		RelayAddr:  cfg.RelayAddr,
		OutputDir:  cfg.OutputDir,
		LogoPath:   cfg.LogoPath,
		DBPath:     cfg.DBPath,
		BulkDelay:  cfg.BulkDelay.String(),
		LogLevel:   cfg.LogLevel,
	})
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return resolved, nil
}
