// localrag TUI - conversational retrieval search over your documents.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/cli"
	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/histcache"
	"github.com/jeranaias/localrag-tui/internal/ui"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.ParseArgs(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnvOverrides()
	config.SetGlobal(cfg)

	switch cmd {
	case cli.CmdVersion:
		fmt.Println(cli.VersionString())
	case cli.CmdHelp:
		fmt.Print(cli.Usage())
	case cli.CmdAsk:
		if err := cli.RunAsk(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		if err := cli.RunStatus(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.RunConfig(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		runTUI(cfg, args)
	}
}

// runTUI starts the full-screen interface.
func runTUI(cfg *config.Config, args *cli.Args) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "localrag needs a terminal; use `localrag ask \"question\"` for scripted use")
		os.Exit(1)
	}

	cfg = cli.ApplyOverrides(cfg, args)
	config.SetGlobal(cfg)

	// The client reads the global snapshot per request so keys saved in the
	// settings form apply without a restart.
	client := api.NewClient(cfg.Server.BaseURL, cli.GlobalSettingsSource())
	if cfg.Server.TimeoutSecs > 0 {
		client = client.WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second)
	}

	// The history mirror is best-effort: a broken cache file degrades to
	// online-only browsing rather than blocking startup.
	var cache *histcache.Cache
	if cfg.History.CacheEnabled {
		if path, err := cfg.HistoryCachePath(); err == nil {
			if c, err := histcache.Open(path); err == nil {
				cache = c
				defer cache.Close()
			} else if !args.Quiet {
				fmt.Fprintf(os.Stderr, "warning: history cache unavailable: %v\n", err)
			}
		}
	}

	app := ui.NewApp(client, cfg, cache)
	program := tea.NewProgram(app, tea.WithAltScreen())

	// Reflect external edits to the config file while the TUI runs
	watcher, err := config.NewWatcher(time.Second, func() {
		program.Send(ui.ConfigReloadedMsg{})
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
