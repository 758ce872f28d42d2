// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/mention"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

func TestParseArgsDefaultsToTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("no args = %v, want CmdTUI", cmd)
	}
}

func TestParseArgsAsk(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "what", "is", "mud", "weight"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Query != "what is mud weight" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgsFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "--server", "http://10.0.0.2:8000", "-m", "gpt-4o", "--web", "--json", "q"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Server != "http://10.0.0.2:8000" {
		t.Errorf("server = %q", args.Server)
	}
	if args.Model != "gpt-4o" {
		t.Errorf("model = %q", args.Model)
	}
	if !args.Web || !args.JSON {
		t.Error("boolean flags lost")
	}
	if args.Query != "q" {
		t.Errorf("query = %q (boolean flag swallowed the positional?)", args.Query)
	}
}

func TestParseArgsEqualsFormat(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "--server=http://x:1", "--web=false", "q"})
	if args.Server != "http://x:1" {
		t.Errorf("server = %q", args.Server)
	}
	if args.Web {
		t.Error("--web=false must not set Web")
	}
}

func TestParseArgsConfigSet(t *testing.T) {
	cmd, args := ParseArgs([]string{"config", "set", "search.model", "gpt-4o-mini"})
	if cmd != CmdConfig {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Subcommand != "set" || args.ConfigKey != "search.model" || args.ConfigVal != "gpt-4o-mini" {
		t.Errorf("parsed %q %q %q", args.Subcommand, args.ConfigKey, args.ConfigVal)
	}
}

func TestParseArgsUnknownSubcommandBecomesQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"what", "is", "cement"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Query != "what is cement" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	out := ApplyOverrides(cfg, &Args{Server: "http://y:2", Model: "m2", Web: true})

	if out.Server.BaseURL != "http://y:2" || out.Search.Model != "m2" || !out.Search.WebSearchEnabled {
		t.Errorf("overrides not applied: %+v", out)
	}
	// Original untouched
	if cfg.Server.BaseURL == "http://y:2" {
		t.Error("ApplyOverrides mutated the source config")
	}

	out = ApplyOverrides(cfg, &Args{NoWeb: true})
	if out.Search.WebSearchEnabled {
		t.Error("--no-web must win")
	}
}

func TestGlobalSettingsSourceSeesSavedConfig(t *testing.T) {
	defer config.ResetGlobalForTesting()

	cfg := config.Default()
	config.SetGlobal(cfg)
	src := GlobalSettingsSource()

	if got := src(); got.OpenAIKey != "" {
		t.Fatalf("OpenAIKey = %q before any save", got.OpenAIKey)
	}

	// A settings save installs a clone; the old snapshot is never mutated
	saved := cfg.Clone()
	saved.Credentials.OpenAIKey = "sk-new"
	config.SetGlobal(saved)

	if got := src(); got.OpenAIKey != "sk-new" {
		t.Errorf("OpenAIKey = %q after save, want sk-new", got.OpenAIKey)
	}
}

func TestSearchSucceedsAfterKeySaved(t *testing.T) {
	defer config.ResetGlobalForTesting()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"answer":"ok","sources":[]}`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Server.BaseURL = srv.URL
	config.SetGlobal(cfg)

	// Client built at startup, before any key exists
	client := api.NewClient(cfg.Server.BaseURL, GlobalSettingsSource())

	_, err := client.Search(context.Background(), api.SearchRequest{Query: "q"})
	if !errors.Is(err, api.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}

	saved := cfg.Clone()
	saved.Credentials.OpenAIKey = "sk-new"
	config.SetGlobal(saved)

	if _, err := client.Search(context.Background(), api.SearchRequest{Query: "q"}); err != nil {
		t.Fatalf("search after saving key: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestQueryEchoHighlighting(t *testing.T) {
	theme := styles.NewTheme("dark")
	mark := func(token string) string { return theme.MentionText.Render(token) }

	out := mention.Highlight("find @report.pdf docs", mark)
	if !strings.Contains(out, "@report.pdf") {
		t.Errorf("highlighted echo lost the token: %q", out)
	}
}

func TestRedactIfKey(t *testing.T) {
	if redactIfKey("credentials.openai_key", "sk-secret") != "***" {
		t.Error("credential value not redacted")
	}
	if redactIfKey("search.model", "gpt-4o") != "gpt-4o" {
		t.Error("non-credential value redacted")
	}
}
