package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/config"
	"github.com/javiermolinar/shopboard/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  shopboard config
  shopboard config --print`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				printConfig(cmd.OutOrStdout(), config.DefaultConfigPath(), a.config)
				return nil
			}
			return runConfigInteractive(cmd.OutOrStdout(), os.Stdin)
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the effective configuration and exit")
	return cmd
}

func runConfigInteractive(w io.Writer, in io.Reader) error {
	configPath := config.DefaultConfigPath()

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	printConfig(w, configPath, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(w, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(w, reader, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

func editConfig(w io.Writer, reader *bufio.Reader, cfg *config.Config) {
	cfg.Board.DayStartHour = promptInt(w, reader, "First visible hour", cfg.Board.DayStartHour)
	cfg.Board.DayEndHour = promptInt(w, reader, "Last visible hour", cfg.Board.DayEndHour)
	cfg.Board.DefaultView = promptValue(w, reader, "Default view (home, tasks, devices, operators)", cfg.Board.DefaultView)
	cfg.Board.WorkspaceID = int64(promptInt(w, reader, "Workspace ID", int(cfg.Board.WorkspaceID)))
	cfg.Storage.DBPath = promptValue(w, reader, "Database path", cfg.Storage.DBPath)
	cfg.Server.Addr = promptValue(w, reader, "API listen address", cfg.Server.Addr)
	cfg.Server.RemoteURL = promptValue(w, reader, "Remote API URL (empty for local database)", cfg.Server.RemoteURL)
	cfg.Planner.RecomputeCron = promptValue(w, reader, "Recompute cron (empty to disable)", cfg.Planner.RecomputeCron)
	cfg.Log.Level = promptValue(w, reader, "Log level", cfg.Log.Level)
	cfg.UI.Theme = promptTheme(w, reader, cfg.UI.Theme)
}

func printConfig(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(w, "Config file: %s\n\n", path)
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[board]")
	fmt.Fprintf(w, "  day_start_hour   = %d\n", cfg.Board.DayStartHour)
	fmt.Fprintf(w, "  day_end_hour     = %d\n", cfg.Board.DayEndHour)
	fmt.Fprintf(w, "  min_bar_percent  = %g\n", cfg.Board.MinBarPercent)
	fmt.Fprintf(w, "  default_view     = %s\n", cfg.Board.DefaultView)
	fmt.Fprintf(w, "  workspace_id     = %d\n", cfg.Board.WorkspaceID)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[server]")
	fmt.Fprintf(w, "  addr             = %s\n", cfg.Server.Addr)
	if cfg.Server.AuthToken != "" {
		fmt.Fprintln(w, "  auth_token       = (set)")
	}
	if cfg.Server.RemoteURL != "" {
		fmt.Fprintf(w, "  remote_url       = %s\n", cfg.Server.RemoteURL)
	}
	if cfg.Planner.RecomputeCron != "" {
		fmt.Fprintln(w, "\n[planner]")
		fmt.Fprintf(w, "  recompute_cron   = %s\n", cfg.Planner.RecomputeCron)
	}
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(w io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(w io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(w io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(w, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(w, "  Invalid number %q.\n", value)
	}
}

func promptTheme(w io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(w, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
