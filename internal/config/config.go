// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/javiermolinar/shopboard/internal/timeline"
)

// Config holds the application configuration.
type Config struct {
	Board   BoardConfig   `toml:"board"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Planner PlannerConfig `toml:"planner"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// BoardConfig holds timeline settings.
type BoardConfig struct {
	DayStartHour  int     `toml:"day_start_hour"`  // first visible hour, e.g. 9
	DayEndHour    int     `toml:"day_end_hour"`    // last visible hour, e.g. 22
	MinBarPercent float64 `toml:"min_bar_percent"` // narrowest bar width
	DefaultView   string  `toml:"default_view"`    // "home", "tasks", "devices", "operators"
	WorkspaceID   int64   `toml:"workspace_id"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	AuthToken string `toml:"auth_token"`
	RemoteURL string `toml:"remote_url"` // when set the board talks to a remote API instead of the local database
}

// PlannerConfig holds recompute settings.
type PlannerConfig struct {
	RecomputeCron string `toml:"recompute_cron"` // 5-field cron, empty disables
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "frappe", "latte"
}

// Views the board knows about.
var validViews = map[string]bool{
	"home":      true,
	"tasks":     true,
	"devices":   true,
	"operators": true,
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			DayStartHour:  9,
			DayEndHour:    22,
			MinBarPercent: 4,
			DefaultView:   "home",
			WorkspaceID:   1,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7080",
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shopboard.db"
	}
	return filepath.Join(home, ".local", "share", "shopboard", "shopboard.db")
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shopboard.log"
	}
	return filepath.Join(home, ".local", "state", "shopboard", "shopboard.log")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "shopboard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
// A .env file in the working directory or next to the config file is loaded
// into the environment first; variables already set are kept.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	loadDotEnv(filepath.Dir(path))
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

func loadDotEnv(configDir string) {
	var files []string
	for _, f := range []string{".env", filepath.Join(configDir, ".env")} {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) > 0 {
		_ = godotenv.Load(files...) // optional
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SHOPBOARD_DAY_START_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHOPBOARD_DAY_START_HOUR: %w", err)
		}
		cfg.Board.DayStartHour = n
	}
	if v := os.Getenv("SHOPBOARD_DAY_END_HOUR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHOPBOARD_DAY_END_HOUR: %w", err)
		}
		cfg.Board.DayEndHour = n
	}
	if v := os.Getenv("SHOPBOARD_MIN_BAR_PERCENT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SHOPBOARD_MIN_BAR_PERCENT: %w", err)
		}
		cfg.Board.MinBarPercent = f
	}
	if v := os.Getenv("SHOPBOARD_VIEW"); v != "" {
		cfg.Board.DefaultView = v
	}
	if v := os.Getenv("SHOPBOARD_WORKSPACE_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SHOPBOARD_WORKSPACE_ID: %w", err)
		}
		cfg.Board.WorkspaceID = n
	}

	if v := os.Getenv("SHOPBOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("SHOPBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SHOPBOARD_AUTH_TOKEN"); v != "" {
		cfg.Server.AuthToken = v
	}
	if v := os.Getenv("SHOPBOARD_REMOTE_URL"); v != "" {
		cfg.Server.RemoteURL = v
	}

	if v := os.Getenv("SHOPBOARD_RECOMPUTE_CRON"); v != "" {
		cfg.Planner.RecomputeCron = v
	}

	if v := os.Getenv("SHOPBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SHOPBOARD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	if v := os.Getenv("SHOPBOARD_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	b := c.Board
	if b.DayStartHour < 0 || b.DayEndHour > 24 || b.DayStartHour >= b.DayEndHour {
		return fmt.Errorf("day hours must satisfy 0 <= start < end <= 24, got %d-%d", b.DayStartHour, b.DayEndHour)
	}
	if b.MinBarPercent <= 0 || b.MinBarPercent > 100 {
		return fmt.Errorf("min_bar_percent must be in (0, 100], got %v", b.MinBarPercent)
	}
	if !validViews[strings.ToLower(b.DefaultView)] {
		return fmt.Errorf("invalid default_view: %s", b.DefaultView)
	}
	if b.WorkspaceID < 0 {
		return errors.New("workspace_id cannot be negative")
	}
	if c.Storage.DBPath == "" && c.Server.RemoteURL == "" {
		return errors.New("db_path must be set")
	}
	if expr := strings.TrimSpace(c.Planner.RecomputeCron); expr != "" {
		if _, err := ParseCron(expr); err != nil {
			return fmt.Errorf("recompute_cron: %w", err)
		}
	}
	return nil
}

// Window returns the board's visible time window.
func (c *Config) Window() timeline.Window {
	return timeline.Window{StartHour: c.Board.DayStartHour, EndHour: c.Board.DayEndHour}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseCron parses a 5-field cron expression.
func ParseCron(expr string) (cron.Schedule, error) {
	if strings.HasPrefix(strings.TrimSpace(expr), "@") {
		return nil, errors.New("only 5-field cron expressions are supported")
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
