// coach TUI - A terminal chat client for the hosted Coach AI.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/coach-tui/internal/config"
	"github.com/jeranaias/coach-tui/internal/controller"
	"github.com/jeranaias/coach-tui/internal/genai"
	"github.com/jeranaias/coach-tui/internal/logging"
	"github.com/jeranaias/coach-tui/internal/store"
	"github.com/jeranaias/coach-tui/internal/ui/chat"
	"github.com/jeranaias/coach-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("coach %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logPath, err := cfg.LogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving log file: %v\n", err)
		os.Exit(1)
	}
	logCloser := logging.Setup(logPath, cfg.Logging.Level)
	defer logCloser.Close()

	log.Info().Str("version", Version).Msg("coach starting")

	dataDir, err := cfg.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving data directory: %v\n", err)
		os.Exit(1)
	}
	sessionStore, err := store.NewWithDir(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session store: %v\n", err)
		os.Exit(1)
	}

	client := genai.NewClient(&genai.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		APIKey:            cfg.API.Key,
		Model:             cfg.API.Model,
		System:            cfg.API.SystemPrompt,
		ConnectTimeout:    time.Duration(cfg.API.ConnectTimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.API.RequestsPerMinute,
	})

	ctrl := controller.New(sessionStore, client)
	theme := styles.NewTheme()

	p := tea.NewProgram(
		chat.New(ctrl, theme, cfg.UI),
		tea.WithAltScreen(),
	)

	// Live-reload UI options and log level on config file edits. A failed
	// watch is non-fatal: edits then require a restart.
	if watcher := watchConfig(p); watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running coach: %v\n", err)
		os.Exit(1)
	}
}

// watchConfig starts the config file watcher and forwards reloads into the
// running program.
func watchConfig(p *tea.Program) *config.Watcher {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return nil
	}

	watcher, err := config.NewWatcher(path, func(cfg *config.Config) {
		zerolog.SetGlobalLevel(logging.ParseLevel(cfg.Logging.Level))
		p.Send(chat.ConfigReloadedMsg{Config: cfg})
	})
	if err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
		return nil
	}

	if err := watcher.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch failed")
		watcher.Close()
		return nil
	}

	return watcher
}
