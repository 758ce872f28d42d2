// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/config"
)

// statusReport is the machine-readable shape of the status command.
type statusReport struct {
	Server        string `json:"server"`
	Reachable     bool   `json:"reachable"`
	Error         string `json:"error,omitempty"`
	Model         string `json:"model"`
	WebSearch     bool   `json:"web_search"`
	HasOpenAIKey  bool   `json:"has_openai_key"`
	HasExaKey     bool   `json:"has_exa_key"`
	DocumentCount int    `json:"document_count"`
	ChatCount     int    `json:"chat_count"`
}

// RunStatus checks backend reachability and prints the effective
// configuration with credentials reduced to present/absent.
func RunStatus(cfg *config.Config, args *Args) error {
	cfg = ApplyOverrides(cfg, args)
	client := api.NewClient(cfg.Server.BaseURL, SettingsSource(cfg)).
		WithTimeout(10 * time.Second)

	report := statusReport{
		Server:       cfg.Server.BaseURL,
		Model:        cfg.Search.Model,
		WebSearch:    cfg.Search.WebSearchEnabled,
		HasOpenAIKey: cfg.HasPrimaryCredential(),
		HasExaKey:    cfg.HasWebCredential(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if chats, err := client.GetChats(ctx); err != nil {
		report.Error = api.UserMessage(err)
	} else {
		report.Reachable = true
		report.ChatCount = len(chats)
		if docs, err := client.GetDocuments(ctx); err == nil {
			report.DocumentCount = len(docs)
		}
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(VersionString())
	fmt.Printf("server:     %s\n", report.Server)
	if report.Reachable {
		fmt.Printf("status:     reachable (%d chats, %d documents)\n", report.ChatCount, report.DocumentCount)
	} else {
		fmt.Printf("status:     UNREACHABLE - %s\n", report.Error)
	}
	fmt.Printf("model:      %s\n", report.Model)
	fmt.Printf("web search: %s\n", onOff(report.WebSearch))
	fmt.Printf("openai key: %s\n", presentAbsent(report.HasOpenAIKey))
	fmt.Printf("exa key:    %s\n", presentAbsent(report.HasExaKey))

	if !report.HasOpenAIKey {
		fmt.Println("\nSet an OpenAI key with: localrag config set credentials.openai_key sk-...")
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func presentAbsent(b bool) string {
	if b {
		return "present"
	}
	return "absent"
}
