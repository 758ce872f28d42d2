// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/localrag-tui/internal/config"
)

// RunConfig handles "config show" and "config set KEY VALUE".
func RunConfig(cfg *config.Config, args *Args) error {
	switch args.Subcommand {
	case "", "show":
		// String() redacts credentials
		fmt.Println(cfg.String())
		return nil
	case "set":
		if args.ConfigKey == "" {
			return fmt.Errorf("usage: localrag config set KEY VALUE")
		}
		return setConfigValue(cfg, args.ConfigKey, args.ConfigVal)
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q (want show, set, or path)", args.Subcommand)
	}
}

// setConfigValue applies one dotted-key assignment, validates, and saves.
func setConfigValue(cfg *config.Config, key, value string) error {
	out := cfg.Clone()

	switch strings.ToLower(key) {
	case "server.base_url", "server":
		out.Server.BaseURL = value
	case "server.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		out.Server.TimeoutSecs = n
	case "credentials.openai_key", "openai_key":
		out.Credentials.OpenAIKey = value
	case "credentials.exa_key", "exa_key":
		out.Credentials.ExaKey = value
	case "search.model", "model":
		out.Search.Model = value
	case "search.web_search", "web_search":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		out.Search.WebSearchEnabled = b
	case "search.debounce_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		out.Search.DebounceMs = n
	case "ui.theme", "theme":
		out.UI.Theme = value
	case "ui.reveal_interval_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		out.UI.RevealIntervalMs = n
	case "ui.show_scores":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		out.UI.ShowScores = b
	case "history.cache_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		out.History.CacheEnabled = b
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}

	if err := out.Validate(); err != nil {
		return err
	}
	if err := config.Save(out); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, redactIfKey(key, value))
	return nil
}

// redactIfKey hides credential values in the confirmation line.
func redactIfKey(key, value string) string {
	if strings.Contains(key, "key") && value != "" {
		return "***"
	}
	return value
}
