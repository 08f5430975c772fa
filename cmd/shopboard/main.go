package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/javiermolinar/shopboard/internal/config"
	"github.com/javiermolinar/shopboard/internal/ui"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, ui.ErrConflicts) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	app := ui.NewApp(cfg)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
