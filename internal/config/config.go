package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/sadopc/togglreport/internal/toggl"
)

const (
	defaultConfigPath = "~/.config/togglreport/config.toml"
	envPrefix         = "TOGGLREPORT"

	DefaultRelayAddr = "127.0.0.1:8787"
	DefaultBulkDelay = 300 * time.Millisecond
	DefaultOutputDir = "~/togglreport"
)

// Config holds the resolved settings.
type Config struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	UseRelay   bool          `mapstructure:"use_relay"`
	RelayAddr  string        `mapstructure:"relay_addr"`
	OutputDir  string        `mapstructure:"output_dir"`
	LogoPath   string        `mapstructure:"logo_path"`
	DBPath     string        `mapstructure:"db_path"`
	BulkDelay  time.Duration `mapstructure:"bulk_delay"`
	LogLevel   string        `mapstructure:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIBaseURL: toggl.DefaultBaseURL,
		RelayAddr:  DefaultRelayAddr,
		OutputDir:  DefaultOutputDir,
		BulkDelay:  DefaultBulkDelay,
		LogLevel:   zerolog.InfoLevel.String(),
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (DefaultPath when empty), applies
// environment overrides and expands ~ in path settings.
func Load(path string) (*Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	def := Default()
	v.SetDefault("api_base_url", def.APIBaseURL)
	v.SetDefault("use_relay", def.UseRelay)
	v.SetDefault("relay_addr", def.RelayAddr)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("logo_path", def.LogoPath)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("bulk_delay", def.BulkDelay)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(resolved)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.APIBaseURL = strings.TrimSpace(c.APIBaseURL)
	if c.APIBaseURL == "" {
		c.APIBaseURL = toggl.DefaultBaseURL
	}
	if strings.TrimSpace(c.RelayAddr) == "" {
		c.RelayAddr = DefaultRelayAddr
	}
	if c.BulkDelay < 0 {
		return fmt.Errorf("bulk_delay must not be negative, got %s", c.BulkDelay)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	var err error
	for _, p := range []*string{&c.OutputDir, &c.LogoPath, &c.DBPath} {
		if strings.TrimSpace(*p) == "" {
			continue
		}
		if *p, err = expandPath(*p); err != nil {
			return err
		}
	}
	return nil
}

// Level returns the configured zerolog level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// BaseURL is the address API requests go to: the relay when enabled.
func (c *Config) BaseURL() string {
	if c.UseRelay {
		return "http://" + c.RelayAddr
	}
	return c.APIBaseURL
}

// DataDir is the directory holding the database and the TUI log.
func (c *Config) DataDir() string {
	if c.DBPath != "" {
		return filepath.Dir(c.DBPath)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "togglreport")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
