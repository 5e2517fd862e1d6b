package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Platform selects the export sink and the ad bridge.
type Platform string

const (
	PlatformBrowser Platform = "browser" // exports land in ExportDir
	PlatformApp     Platform = "app"     // exports go through ShareCommand
)

// Config holds user preferences
type Config struct {
	DBPath        string        `yaml:"db_path" json:"db_path"`               // SQLite file holding notes and order
	Platform      Platform      `yaml:"platform" json:"platform"`             // browser or app
	ExportDir     string        `yaml:"export_dir" json:"export_dir"`         // Target directory for exported files
	ShareCommand  string        `yaml:"share_command" json:"share_command"`   // Command receiving the exported file path
	Debounce      time.Duration `yaml:"debounce" json:"debounce"`             // Quiet period before text edits are saved
	DefaultSort   string        `yaml:"default_sort" json:"default_sort"`     // Sort mode used at startup
	ConfirmDelete bool          `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Ads
	Premium              bool          `yaml:"premium" json:"premium"`                             // Suppresses interstitials
	AdHelper             string        `yaml:"ad_helper" json:"ad_helper"`                         // Native bridge helper executable
	InterstitialCooldown time.Duration `yaml:"interstitial_cooldown" json:"interstitial_cooldown"` // Minimum gap between interstitials

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	path string
}

// Dir returns the notepado home directory (~/.notepado), honoring NOTEPADO_HOME
func Dir() (string, error) {
	if dir := os.Getenv("NOTEPADO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".notepado"), nil
}

// DefaultConfig returns default settings rooted at dir
func DefaultConfig(dir string) *Config {
	logPath := ""
	if dir != "" {
		logPath = filepath.Join(dir, "logs", "notepado.log")
	}

	return &Config{
		DBPath:               getEnv("NOTEPADO_DB", filepath.Join(dir, "notes.db")),
		Platform:             Platform(getEnv("NOTEPADO_PLATFORM", string(PlatformBrowser))),
		ExportDir:            getEnv("NOTEPADO_EXPORT_DIR", filepath.Join(dir, "exports")),
		Debounce:             500 * time.Millisecond,
		DefaultSort:          "manual",
		ConfirmDelete:        true,
		Premium:              getEnv("NOTEPADO_PREMIUM", "false") == "true",
		InterstitialCooldown: 15 * time.Minute,
		LogLevel:             getEnv("NOTEPADO_LOG_LEVEL", "INFO"),
		LogFile:              getEnv("NOTEPADO_LOG_FILE", logPath),
		LogConsole:           getEnv("NOTEPADO_LOG_CONSOLE", "false") == "true",
		path:                 filepath.Join(dir, "config.yaml"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from the notepado home directory
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, "config.yaml"))
}

// LoadFile loads config from path, falling back to defaults rooted at its directory
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig(filepath.Dir(path))
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment wins over the file for the debounce window
	if v := os.Getenv("NOTEPADO_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.Debounce = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the app cannot run with
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformBrowser, PlatformApp:
	default:
		return fmt.Errorf("invalid platform %q (want browser or app)", c.Platform)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must be set")
	}
	return nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
