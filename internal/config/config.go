// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/localrag-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete localrag-tui configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Backend server configuration
	Server ServerConfig `toml:"server" json:"server"`

	// API credentials (stored plain; the config file is chmod 0600)
	Credentials CredentialsConfig `toml:"credentials" json:"credentials"`

	// Search behavior
	Search SearchConfig `toml:"search" json:"search"`

	// Local chat history cache
	History HistoryConfig `toml:"history" json:"history"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// ServerConfig contains localrag backend connection settings.
type ServerConfig struct {
	// BaseURL is the root of the localrag backend; the client appends /api
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request HTTP timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// CredentialsConfig contains the API keys forwarded to the backend.
type CredentialsConfig struct {
	// OpenAIKey is the primary credential; answer generation fails without it
	OpenAIKey string `toml:"openai_key" json:"openai_key"`
	// ExaKey is the secondary credential, required only for web search
	ExaKey string `toml:"exa_key" json:"exa_key"`
}

// SearchConfig contains answer-generation settings.
type SearchConfig struct {
	// Model is the OpenAI model identifier sent with each search
	Model string `toml:"model" json:"model"`
	// WebSearchEnabled toggles web retrieval alongside document retrieval
	WebSearchEnabled bool `toml:"web_search_enabled" json:"web_search_enabled"`
	// DebounceMs is the quiet period before a history search fires
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms"`
}

// HistoryConfig contains the local chat summary cache settings.
type HistoryConfig struct {
	// CacheEnabled controls the SQLite mirror of chat summaries
	CacheEnabled bool `toml:"cache_enabled" json:"cache_enabled"`
	// CachePath overrides the cache database location (empty = ~/.localrag/history.db)
	CachePath string `toml:"cache_path" json:"cache_path"`
}

// UIConfig contains user interface configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", or "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode reduces vertical padding in the transcript
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// RevealIntervalMs is the delay between revealed runes while an answer animates
	RevealIntervalMs int `toml:"reveal_interval_ms" json:"reveal_interval_ms"`
	// ShowScores displays raw relevance scores next to sources
	ShowScores bool `toml:"show_scores" json:"show_scores"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Server: ServerConfig{
			BaseURL:     "http://127.0.0.1:8000",
			TimeoutSecs: 120,
		},

		Credentials: CredentialsConfig{
			OpenAIKey: "",
			ExaKey:    "",
		},

		Search: SearchConfig{
			Model:            "gpt-4o-mini",
			WebSearchEnabled: false,
			DebounceMs:       300,
		},

		History: HistoryConfig{
			CacheEnabled: true,
			CachePath:    "",
		},

		UI: UIConfig{
			Theme:            "dark",
			CompactMode:      false,
			RevealIntervalMs: 30,
			ShowScores:       false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the localrag configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".localrag"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// HistoryCachePath returns the path to the local chat history cache database.
func (c *Config) HistoryCachePath() (string, error) {
	if c.History.CachePath != "" {
		return c.History.CachePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	// Apply environment overrides to defaults
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Server
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = defaults.Server.BaseURL
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}

	// Search
	if cfg.Search.Model == "" {
		cfg.Search.Model = defaults.Search.Model
	}
	if cfg.Search.DebounceMs == 0 {
		cfg.Search.DebounceMs = defaults.Search.DebounceMs
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.RevealIntervalMs == 0 {
		cfg.UI.RevealIntervalMs = defaults.UI.RevealIntervalMs
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file and installs it as
// the global instance, so subsequent reads observe the saved values.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := SaveTOML(cfg, path); err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// SECURITY: Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# localrag-tui configuration file")
	fmt.Fprintln(file, "# Generated by localrag-tui - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate server URL
	if c.Server.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: "must not be empty",
		})
	} else {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, ValidationError{
				Field:   "server.base_url",
				Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
			})
		}
	}

	// Validate timeout
	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.Server.TimeoutSecs),
		})
	}

	// Validate model
	if c.Search.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "search.model",
			Message: "must not be empty",
		})
	}

	// Validate debounce
	if c.Search.DebounceMs < 0 || c.Search.DebounceMs > 5000 {
		errs = append(errs, ValidationError{
			Field:   "search.debounce_ms",
			Message: fmt.Sprintf("must be 0-5000, got %d", c.Search.DebounceMs),
		})
	}

	// Validate theme
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Validate reveal interval
	if c.UI.RevealIntervalMs < 1 || c.UI.RevealIntervalMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.reveal_interval_ms",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.UI.RevealIntervalMs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Overrides take precedence over file values but are never written back.
func (c *Config) ApplyEnvOverrides() {
	// LOCALRAG_SERVER
	if server := os.Getenv("LOCALRAG_SERVER"); server != "" {
		c.Server.BaseURL = server
	}

	// LOCALRAG_OPENAI_KEY, falling back to the conventional OPENAI_API_KEY
	if key := os.Getenv("LOCALRAG_OPENAI_KEY"); key != "" {
		c.Credentials.OpenAIKey = key
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.Credentials.OpenAIKey == "" {
		c.Credentials.OpenAIKey = key
	}

	// LOCALRAG_EXA_KEY, falling back to EXA_API_KEY
	if key := os.Getenv("LOCALRAG_EXA_KEY"); key != "" {
		c.Credentials.ExaKey = key
	} else if key := os.Getenv("EXA_API_KEY"); key != "" && c.Credentials.ExaKey == "" {
		c.Credentials.ExaKey = key
	}

	// LOCALRAG_MODEL
	if model := os.Getenv("LOCALRAG_MODEL"); model != "" {
		c.Search.Model = model
	}

	// LOCALRAG_WEB_SEARCH
	if web := os.Getenv("LOCALRAG_WEB_SEARCH"); web != "" {
		c.Search.WebSearchEnabled = web == "1" || strings.ToLower(web) == "true"
	}

	// LOCALRAG_THEME
	if theme := os.Getenv("LOCALRAG_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// CREDENTIAL HELPERS
// =============================================================================

// HasPrimaryCredential reports whether the OpenAI key is configured.
// Search and upload cannot proceed without it.
func (c *Config) HasPrimaryCredential() bool {
	return strings.TrimSpace(c.Credentials.OpenAIKey) != ""
}

// HasWebCredential reports whether the Exa key is configured.
func (c *Config) HasWebCredential() bool {
	return strings.TrimSpace(c.Credentials.ExaKey) != ""
}

// WebSearchActive reports whether web search should actually run: the toggle
// is on and the secondary credential exists to back it.
func (c *Config) WebSearchActive() bool {
	return c.Search.WebSearchEnabled && c.HasWebCredential()
}

// =============================================================================
// UTILITY
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Credentials.OpenAIKey != "" {
		safe.Credentials.OpenAIKey = "[REDACTED]"
	}
	if safe.Credentials.ExaKey != "" {
		safe.Credentials.ExaKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access unless SetGlobal already installed a
// snapshot; the lazy load never overwrites an installed one. Thread-safe.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigOnce.Do(func() {
		loaded, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = loaded
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
