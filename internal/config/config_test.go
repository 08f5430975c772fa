package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Board.DayStartHour != 9 {
		t.Errorf("expected day_start_hour 9, got %d", cfg.Board.DayStartHour)
	}
	if cfg.Board.DayEndHour != 22 {
		t.Errorf("expected day_end_hour 22, got %d", cfg.Board.DayEndHour)
	}
	if cfg.Board.MinBarPercent != 4 {
		t.Errorf("expected min_bar_percent 4, got %v", cfg.Board.MinBarPercent)
	}
	if cfg.Board.DefaultView != "home" {
		t.Errorf("expected default_view home, got %s", cfg.Board.DefaultView)
	}
	if cfg.Window().TotalMinutes() != 780 {
		t.Errorf("expected 780 minute window, got %d", cfg.Window().TotalMinutes())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Board.DayStartHour != 9 {
		t.Errorf("expected default day_start_hour, got %d", cfg.Board.DayStartHour)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[board]
day_start_hour = 7
day_end_hour = 19
min_bar_percent = 2.5
default_view = "operators"
workspace_id = 3

[storage]
db_path = "/tmp/test.db"

[server]
addr = ":9000"

[planner]
recompute_cron = "*/15 * * * *"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Board.DayStartHour != 7 || cfg.Board.DayEndHour != 19 {
		t.Errorf("expected 7-19 window, got %d-%d", cfg.Board.DayStartHour, cfg.Board.DayEndHour)
	}
	if cfg.Board.MinBarPercent != 2.5 {
		t.Errorf("expected min_bar_percent 2.5, got %v", cfg.Board.MinBarPercent)
	}
	if cfg.Board.DefaultView != "operators" {
		t.Errorf("expected default_view operators, got %s", cfg.Board.DefaultView)
	}
	if cfg.Board.WorkspaceID != 3 {
		t.Errorf("expected workspace_id 3, got %d", cfg.Board.WorkspaceID)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %s", cfg.Server.Addr)
	}
	if cfg.Planner.RecomputeCron != "*/15 * * * *" {
		t.Errorf("expected recompute_cron, got %q", cfg.Planner.RecomputeCron)
	}
	// Values absent from the file keep their defaults.
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected default theme, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[board]
day_start_hour = 8
day_end_hour = 18

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("SHOPBOARD_DAY_START_HOUR", "10")
	t.Setenv("SHOPBOARD_AUTH_TOKEN", "secret")
	t.Setenv("SHOPBOARD_VIEW", "devices")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Board.DayStartHour != 10 {
		t.Errorf("expected day_start_hour 10 from env, got %d", cfg.Board.DayStartHour)
	}
	if cfg.Board.DayEndHour != 18 {
		t.Errorf("expected day_end_hour 18 from file, got %d", cfg.Board.DayEndHour)
	}
	if cfg.Server.AuthToken != "secret" {
		t.Errorf("expected auth_token from env, got %q", cfg.Server.AuthToken)
	}
	if cfg.Board.DefaultView != "devices" {
		t.Errorf("expected view devices from env, got %s", cfg.Board.DefaultView)
	}
}

func TestLoadFrom_InvalidEnvNumber(t *testing.T) {
	t.Setenv("SHOPBOARD_DAY_END_HOUR", "late")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric SHOPBOARD_DAY_END_HOUR")
	}
}

func TestLoadFrom_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("SHOPBOARD_UI_THEME=latte\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	// Registers cleanup so the value loaded from .env does not leak.
	t.Setenv("SHOPBOARD_UI_THEME", "")
	_ = os.Unsetenv("SHOPBOARD_UI_THEME")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte from .env, got %s", cfg.UI.Theme)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"full day", func(c *Config) { c.Board.DayStartHour, c.Board.DayEndHour = 0, 24 }, false},
		{"start after end", func(c *Config) { c.Board.DayStartHour, c.Board.DayEndHour = 18, 9 }, true},
		{"empty window", func(c *Config) { c.Board.DayEndHour = c.Board.DayStartHour }, true},
		{"end past midnight", func(c *Config) { c.Board.DayEndHour = 25 }, true},
		{"negative start", func(c *Config) { c.Board.DayStartHour = -1 }, true},
		{"zero min percent", func(c *Config) { c.Board.MinBarPercent = 0 }, true},
		{"min percent over 100", func(c *Config) { c.Board.MinBarPercent = 150 }, true},
		{"unknown view", func(c *Config) { c.Board.DefaultView = "calendar" }, true},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, true},
		{"remote without db path", func(c *Config) { c.Storage.DBPath = ""; c.Server.RemoteURL = "http://board:7080" }, false},
		{"valid cron", func(c *Config) { c.Planner.RecomputeCron = "0 6 * * 1-5" }, false},
		{"invalid cron", func(c *Config) { c.Planner.RecomputeCron = "every morning" }, true},
		{"descriptor cron", func(c *Config) { c.Planner.RecomputeCron = "@hourly" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Board.DayStartHour = 6
	cfg.Board.DayEndHour = 20
	cfg.Board.DefaultView = "tasks"
	cfg.Storage.DBPath = filepath.Join(tmpDir, "board.db")

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Board.DayStartHour != 6 || loaded.Board.DayEndHour != 20 {
		t.Errorf("expected 6-20, got %d-%d", loaded.Board.DayStartHour, loaded.Board.DayEndHour)
	}
	if loaded.Board.DefaultView != "tasks" {
		t.Errorf("expected view tasks, got %s", loaded.Board.DefaultView)
	}
	if loaded.Storage.DBPath != cfg.Storage.DBPath {
		t.Errorf("expected db_path %s, got %s", cfg.Storage.DBPath, loaded.Storage.DBPath)
	}
}
