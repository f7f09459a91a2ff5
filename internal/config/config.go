package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 15 * time.Second

	configFileName  = "config.toml"
	sessionFileName = "session.json"
	historyDBName   = "history.db"
	logFileName     = "voyagerui.log"
)

// Config holds everything the client needs to reach the backend and to
// find its on-disk state. Values come from an optional config.toml in the
// data dir; environment variables override the file.
type Config struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	DataDir        string `toml:"data_dir"`
	Debug          bool   `toml:"debug"`

	RequestTimeout time.Duration `toml:"-"`
}

// SessionFile is the persisted session (token + identity).
func (c *Config) SessionFile() string { return filepath.Join(c.DataDir, sessionFileName) }

// HistoryDB is the local sqlite mirror of conversations and messages.
func (c *Config) HistoryDB() string { return filepath.Join(c.DataDir, historyDBName) }

// LogFile is where slog output goes while the TUI owns the terminal.
func (c *Config) LogFile() string { return filepath.Join(c.DataDir, logFileName) }

// Load builds the configuration from defaults, config.toml and environment.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:        defaultBaseURL,
		RequestTimeout: defaultTimeout,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home dir: %w", err)
	}
	cfg.DataDir = filepath.Join(home, ".voyagerui")
	if dir := os.Getenv("VOYAGER_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	configFile := filepath.Join(cfg.DataDir, configFileName)
	if _, err := os.Stat(configFile); err == nil {
		if _, err := toml.DecodeFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
		}
	}
	if cfg.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	if url := os.Getenv("VOYAGER_API_URL"); url != "" {
		cfg.BaseURL = url
	}
	if os.Getenv("VOYAGER_DEBUG") != "" {
		cfg.Debug = true
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", cfg.DataDir, err)
	}
	return cfg, nil
}
