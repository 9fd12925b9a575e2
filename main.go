package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/fatih/color"

	"github.com/miosa/aidesk-tui/app"
	"github.com/miosa/aidesk-tui/auth"
	"github.com/miosa/aidesk-tui/client"
	"github.com/miosa/aidesk-tui/config"
	"github.com/miosa/aidesk-tui/store"
)

var version = "dev"

func main() {
	profileFlag := flag.String("profile", "", "Named profile for state isolation (~/.aidesk/profiles/<name>)")
	urlFlag := flag.String("url", "", "Backend URL (overrides config.toml and AIDESK_URL)")
	debugFlag := flag.Bool("debug", false, "Write a debug log to <profile>/debug.log")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.BoolVar(showVersion, "V", false, "Show version and exit")
	flag.Parse()

	if *noColor {
		os.Setenv("NO_COLOR", "1")
		color.NoColor = true
	}

	if *showVersion {
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint("aidesk"), version)
		os.Exit(0)
	}

	if err := run(*profileFlag, *urlFlag, *debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("aidesk:"), err)
		os.Exit(1)
	}
}

func run(profile, baseURL string, debug bool) error {
	dir, err := profileDir(profile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	if debug || config.Debug() {
		f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "aidesk")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	_, statErr := os.Stat(config.Path(dir))
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.Server.URL = baseURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid -url: %w", err)
		}
	}
	// Without a config file or AIDESK_THEME, follow the terminal background.
	if statErr != nil && os.Getenv("AIDESK_THEME") == "" {
		if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
			cfg.UI.Theme = "dark"
		} else {
			cfg.UI.Theme = "light"
		}
	}

	tokens := auth.New(dir)
	if err := tokens.Load(); err != nil {
		log.Printf("[main] load token: %v", err)
	}
	if t := config.EnvToken(); t != "" {
		if err := tokens.Set(t); err != nil {
			log.Printf("[main] store AIDESK_TOKEN: %v", err)
		}
	}

	c := client.New(cfg.Server.URL, tokens,
		client.WithTimeout(cfg.Server.Timeout.Duration),
		client.WithRateLimit(cfg.Server.RateLimit),
	)

	var st *store.Store
	if cfg.Cache.Enabled {
		st, err = store.Open(cfg.CachePath(dir))
		if err != nil {
			// The app works without the cache, only offline fallback is lost.
			log.Printf("[main] open cache: %v", err)
			st = nil
		} else {
			defer st.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := config.Watch(ctx, dir)
	if err != nil {
		log.Printf("[main] watch config: %v", err)
		watcher = nil
	}

	m := app.New(app.Options{
		Backend:    c,
		Tokens:     tokens,
		Store:      st,
		Config:     cfg,
		Watcher:    watcher,
		ProfileDir: dir,
		Version:    version,
	})

	// Alt screen and mouse mode are set on the tea.View returned by the
	// model, so no program options are needed.
	p := tea.NewProgram(m, tea.WithContext(ctx))

	go func() {
		p.Send(app.ProgramReady{Program: p})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// profileDir returns ~/.aidesk, or ~/.aidesk/profiles/<name> for a named
// profile.
func profileDir(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home dir: %w", err)
	}
	base := filepath.Join(home, ".aidesk")
	if profile == "" {
		return base, nil
	}
	return filepath.Join(base, "profiles", profile), nil
}
