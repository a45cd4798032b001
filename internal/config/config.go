package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when the config file omits a field.
const (
	DefaultAlertTemplate = "terminal-offense-notice"
	DefaultMaxLogEntries = 500
)

// Config represents the flat tally configuration.
type Config struct {
	Version string `json:"version"`
	Actor   string `json:"actor"`             // invoking user, used for attribution and audit
	DBPath  string `json:"db_path,omitempty"` // defaults to ~/.tally/tally.db

	AlertTemplate    string `json:"alert_template,omitempty"`     // message template name for terminal-rank alerts
	DefaultLeadEmail string `json:"default_lead_email,omitempty"` // fallback team lead when the directory has none
	FromEmail        string `json:"from_email,omitempty"`
	SendgridAPIKey   string `json:"sendgrid_api_key,omitempty"` // empty means console notifier

	// AlertRequireRecipients skips marking an event alerted when no
	// recipients resolve. Default false: the marker is stamped regardless,
	// matching the long-standing dispatcher behavior.
	AlertRequireRecipients bool `json:"alert_require_recipients,omitempty"`

	MaxLogEntries int `json:"max_log_entries,omitempty"` // audit log prune ceiling
}

// LoadConfig reads .tally/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".tally", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	tallyDir := filepath.Join(dir, ".tally")
	if err := os.MkdirAll(tallyDir, 0755); err != nil {
		return fmt.Errorf("failed to create .tally dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(tallyDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Default returns a config with all defaults filled in, used when no
// config file exists yet.
func Default() *Config {
	cfg := &Config{Version: "1"}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.AlertTemplate == "" {
		c.AlertTemplate = DefaultAlertTemplate
	}
	if c.MaxLogEntries <= 0 {
		c.MaxLogEntries = DefaultMaxLogEntries
	}
}

// DefaultDBPath returns the default database location under the user's home.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tally", "tally.db"), nil
}
