// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// hrdesk is the terminal client for the company HR platform. It owns
// the full session lifecycle: login (including forced password change
// and MFA), background session keepalive, startup repair of stale
// local state, and role-filtered navigation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cclogistics/hrdesk/lib/config"
	"github.com/cclogistics/hrdesk/lib/fingerprint"
	"github.com/cclogistics/hrdesk/lib/hrapi"
	"github.com/cclogistics/hrdesk/lib/localstore"
	"github.com/cclogistics/hrdesk/lib/session"
	"github.com/cclogistics/hrdesk/lib/shell"
	"github.com/cclogistics/hrdesk/lib/version"
)

// startupCheckTimeout bounds the boot-time session validation so a
// dead server cannot block the UI from coming up.
const startupCheckTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var serverURL string
	var stateFile string
	var logOutput string

	flagSet := pflag.NewFlagSet("hrdesk", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to hrdesk.yaml (default: $HRDESK_CONFIG, or built-in defaults)")
	flagSet.StringVar(&serverURL, "server", "", "HR server base URL (overrides config)")
	flagSet.StringVar(&stateFile, "state-file", "", "path to the local state file (overrides config)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (overrides config)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other tools.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("hrdesk %s\n", version.Full())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("hrdesk requires an interactive terminal")
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if stateFile != "" {
		cfg.State.File = stateFile
	}
	if logOutput != "" {
		cfg.Log.Output = logOutput
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("hrdesk starting", "version", version.Info(), "server", cfg.Server.URL)

	statePath := cfg.State.File
	if statePath == "" {
		statePath = localstore.StateFilePath()
	}
	state := localstore.Open(statePath, logger)

	// First run on this terminal: seed the theme preference from the
	// terminal background so the server-side preference sync has a
	// sensible starting value.
	if themeKey := localstore.PrefixPreferences + "theme"; !state.Has(themeKey) {
		theme := "light"
		if termenv.HasDarkBackground() {
			theme = "dark"
		}
		state.Set(themeKey, theme)
	}

	client, err := hrapi.NewClient(hrapi.ClientConfig{
		BaseURL:    cfg.Server.URL,
		HTTPClient: &http.Client{Timeout: cfg.Server.RequestTimeout.Std()},
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	store := session.NewStore(state, client, logger)

	// Validate any surviving session before the UI mounts: a stale
	// identifier the server rejects would otherwise present a broken
	// "logged in" shell.
	ctx, cancel := context.WithTimeout(context.Background(), startupCheckTimeout)
	store.CheckAndFixSession(ctx)
	cancel()

	model := shell.NewModel(shell.Config{
		Store:             store,
		Client:            client,
		Environment:       fingerprint.Detect(),
		KeepaliveInterval: cfg.Session.KeepaliveInterval.Std(),
		Logger:            logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// buildLogger creates the application logger. Records go to the
// configured file as JSON; with no file configured they are discarded,
// because the terminal belongs to the UI.
func buildLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if cfg.Output == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", cfg.Output, err)
	}

	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `hrdesk — terminal client for the company HR platform.

Logs in against the HR server, keeps the session alive in the
background, and presents the pages your role can access. A session
that survives a restart is revalidated against the server before the
shell mounts; a rejected session clears all locally cached data.

Configuration comes from the file named by $HRDESK_CONFIG or --config;
every setting has a working default, so no file is required.

Usage:
  hrdesk [flags]

Flags:
%s`, flagSet.FlagUsages())
}
