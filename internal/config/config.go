// ABOUTME: Configuration loading and parsing for lpe-reminder
// ABOUTME: Supports YAML or TOML files with environment variable expansion and platform defaults

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user data and config directories.
const AppName = "lpe-reminder"

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Device   DeviceConfig   `yaml:"device" toml:"device"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	History  HistoryConfig  `yaml:"history" toml:"history"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// DeviceConfig locates the file holding this installation's device id
type DeviceConfig struct {
	IDFile string `yaml:"id_file" toml:"id_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// HistoryConfig bounds how many timer records are read at once
type HistoryConfig struct {
	DefaultLimit int `yaml:"default_limit" toml:"default_limit"`
	ExportLimit  int `yaml:"export_limit" toml:"export_limit"`
}

// Default limits, matching what the timer UI loads and exports.
const (
	DefaultHistoryLimit = 100
	DefaultExportLimit  = 1000
)

// Default returns a configuration rooted in the platform data directory.
func Default() *Config {
	dataDir := DataDir()
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dataDir, "lpe_reminder.db")},
		Device:   DeviceConfig{IDFile: filepath.Join(dataDir, "device_id")},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		History: HistoryConfig{
			DefaultLimit: DefaultHistoryLimit,
			ExportLimit:  DefaultExportLimit,
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Fields absent from the file keep their Default() values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path if it exists and falls back to Default() otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, cfg.Validate()
	}
	return Load(path)
}

// Write serializes cfg as YAML to path, creating parent directories.
func Write(path string, cfg *Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvOverrides lets the environment win over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LPE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LPE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Device.IDFile == "" {
		return fmt.Errorf("device.id_file is required")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json", "color":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json, color", c.Logging.Format)
	}

	if c.History.DefaultLimit < 0 {
		return fmt.Errorf("history.default_limit must not be negative")
	}
	if c.History.ExportLimit < 0 {
		return fmt.Errorf("history.export_limit must not be negative")
	}

	return nil
}

// ConfigPath returns the path to the config file.
// Priority: LPE_CONFIG env var > XDG_CONFIG_HOME/lpe-reminder/config.yaml > ~/.config/lpe-reminder/config.yaml
func ConfigPath() string {
	if envPath := os.Getenv("LPE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, AppName, "config.yaml")
}

// DataDir returns the per-user application data directory for this OS.
// It does not create the directory.
func DataDir() string {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		baseDir = os.Getenv("LOCALAPPDATA")
		if baseDir == "" {
			baseDir = os.Getenv("APPDATA")
		}
	case "darwin":
		if homeDir, err := os.UserHomeDir(); err == nil {
			baseDir = filepath.Join(homeDir, "Library", "Application Support")
		}
	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			if homeDir, err := os.UserHomeDir(); err == nil {
				baseDir = filepath.Join(homeDir, ".local", "share")
			}
		}
	}

	if baseDir == "" {
		return "data" // fallback
	}
	return filepath.Join(baseDir, AppName)
}
