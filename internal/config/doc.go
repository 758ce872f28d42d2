// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// localrag-tui.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation. API keys live here because
// the backend is a pass-through: every search request carries the caller's
// own credentials.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: localrag backend connection settings
//   - CredentialsConfig: API keys forwarded to the backend
//   - SearchConfig: Answer-generation settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LOCALRAG_*)
//   - ~/.localrag/config.toml
//   - ~/.localrag/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	model := cfg.Search.Model
//	server := cfg.Server.BaseURL
package config
