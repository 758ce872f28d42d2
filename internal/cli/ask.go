// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - single-question and interactive ask handlers.
//
// Handles "localrag ask", which runs a retrieval search without the TUI:
// one-shot when a question is given, otherwise a readline loop with
// persistent history. Markdown rendering only happens on a TTY so piped
// output stays clean.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/mention"
	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/rank"
	"github.com/jeranaias/localrag-tui/internal/session"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

// askHistoryFile is the readline history file inside the config directory.
const askHistoryFile = "ask_history"

// SettingsSource adapts one configuration object into the per-request
// credential snapshot the API client reads. The ask path uses it with its
// per-invocation config, which nothing mutates while the command runs.
func SettingsSource(cfg *config.Config) api.SettingsSource {
	return func() api.Settings {
		return api.Settings{
			OpenAIKey:        cfg.Credentials.OpenAIKey,
			ExaKey:           cfg.Credentials.ExaKey,
			Model:            cfg.Search.Model,
			WebSearchEnabled: cfg.Search.WebSearchEnabled,
		}
	}
}

// GlobalSettingsSource reads the process-wide configuration on every call.
// Saving the settings form and the file watcher both replace that snapshot,
// so the TUI's client picks up a newly saved key on the very next request.
func GlobalSettingsSource() api.SettingsSource {
	return func() api.Settings {
		cfg := config.Global()
		return api.Settings{
			OpenAIKey:        cfg.Credentials.OpenAIKey,
			ExaKey:           cfg.Credentials.ExaKey,
			Model:            cfg.Search.Model,
			WebSearchEnabled: cfg.Search.WebSearchEnabled,
		}
	}
}

// ApplyOverrides folds command-line flags into a copy of the configuration.
func ApplyOverrides(cfg *config.Config, args *Args) *config.Config {
	out := cfg.Clone()
	if args.Server != "" {
		out.Server.BaseURL = args.Server
	}
	if args.Model != "" {
		out.Search.Model = args.Model
	}
	if args.Web {
		out.Search.WebSearchEnabled = true
	}
	if args.NoWeb {
		out.Search.WebSearchEnabled = false
	}
	return out
}

// RunAsk handles the ask command.
func RunAsk(cfg *config.Config, args *Args) error {
	cfg = ApplyOverrides(cfg, args)
	client := api.NewClient(cfg.Server.BaseURL, SettingsSource(cfg))
	mgr := session.NewEmpty(client)

	if strings.TrimSpace(args.Query) != "" {
		return askOnce(mgr, cfg, args, args.Query)
	}
	return askLoop(mgr, cfg, args)
}

// askOnce submits one question and prints the answer.
func askOnce(mgr *session.Manager, cfg *config.Config, args *Args, query string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	turn, err := mgr.Submit(ctx, query)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	printTurn(turn, cfg, args)
	return nil
}

// askLoop runs the interactive readline loop.
func askLoop(mgr *session.Manager, cfg *config.Config, args *Args) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := loadAskHistory(line)

	if !args.Quiet {
		fmt.Println(VersionString())
		fmt.Println("Ask about your documents. @name cites a document, @https://... a page. Ctrl+D exits.")
	}

	for {
		input, err := line.Prompt("localrag> ")
		if err != nil {
			// Ctrl+C / Ctrl+D both end the loop
			break
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		turn, err := mgr.Submit(ctx, input)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, api.UserMessage(err))
			continue
		}
		printTurn(turn, cfg, args)
	}

	saveAskHistory(line, historyPath)
	return nil
}

func loadAskHistory(line *liner.State) string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, askHistoryFile)
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return path
}

func saveAskHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
	os.Chmod(path, 0o600)
}

// =============================================================================
// OUTPUT
// =============================================================================

// printTurn writes one answered turn to stdout.
func printTurn(turn model.QueryTurn, cfg *config.Config, args *Args) {
	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(turn.Response)
		return
	}

	if args.Verbose && isTTY() {
		theme := styles.NewTheme(cfg.UI.Theme)
		mark := func(token string) string { return theme.MentionText.Render(token) }
		fmt.Println(mention.Highlight("> "+turn.Query, mark))
	}

	fmt.Print(renderAnswer(turn.Response.Answer))

	if turn.Response.HasSources() && !args.Quiet {
		printSources(turn.Response)
	}
}

func printSources(resp model.SearchResponse) {
	if top := rank.Sources(resp.Sources); len(top) > 0 {
		fmt.Println("\nSources:")
		for _, s := range top {
			fmt.Printf("  %-40s %.2f\n", s.Filename, s.Score)
		}
	}
	if top := rank.WebSources(resp.WebSources); len(top) > 0 {
		fmt.Println("\nWeb:")
		for _, s := range top {
			title := s.Title
			if title == "" {
				title = s.URL
			}
			fmt.Printf("  %s\n    %s\n", title, s.URL)
		}
	}
}

// renderAnswer renders markdown when stdout is a TTY, plain text otherwise
// so piped output is never corrupted by escape sequences.
func renderAnswer(answer string) string {
	if !isTTY() {
		if !strings.HasSuffix(answer, "\n") {
			answer += "\n"
		}
		return answer
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return answer + "\n"
	}
	out, err := r.Render(answer)
	if err != nil {
		return answer + "\n"
	}
	return out
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
