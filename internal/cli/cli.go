// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides argument parsing and the non-TUI command handlers for
// localrag.
package cli

import (
	"fmt"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Server  string // override server.base_url
	Model   string // override search.model
	Web     bool   // force web search on
	NoWeb   bool   // force web search off
	JSON    bool   // machine-readable output where supported
	Quiet   bool
	Verbose bool

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	Raw []string
}

const usageText = `localrag - conversational search over your documents

Usage:
  localrag                    Start the TUI (default)
  localrag ask "question"     Ask once and print the answer
  localrag ask                Interactive ask loop (readline, no TUI)
  localrag status             Check server reachability and configuration
  localrag config show        Print the active configuration (keys redacted)
  localrag config set K V     Set a configuration value and save
  localrag version            Print version information
  localrag help               Show this help

Flags:
  --server URL    Backend base URL (default from config)
  -m, --model M   Model for this invocation
  --web           Enable web search for this invocation
  --no-web        Disable web search for this invocation
  --json          JSON output (ask, status)
  -q, --quiet     Minimal output
  -v, --verbose   Verbose output

Reference a document in a question with @name, or a page with @https://...:
  localrag ask "summarize @quarterly-report.pdf"
`

// Usage returns the top-level help text.
func Usage() string {
	return usageText
}

// VersionString returns the formatted version line.
func VersionString() string {
	return fmt.Sprintf("localrag %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

// ParseArgs maps raw command-line arguments to a command and its options.
func ParseArgs(raw []string) (Command, *Args) {
	parser := NewArgParser(raw)

	args := &Args{
		Server:  parser.Flag("server"),
		Model:   parser.Flag("model", "m"),
		Web:     parser.BoolFlag("web"),
		NoWeb:   parser.BoolFlag("no-web"),
		JSON:    parser.BoolFlag("json"),
		Quiet:   parser.BoolFlag("quiet", "q"),
		Verbose: parser.BoolFlag("verbose", "v"),
		Raw:     raw,
	}

	if parser.BoolFlag("version") {
		return CmdVersion, args
	}
	if parser.BoolFlag("help", "h") {
		return CmdHelp, args
	}

	switch parser.Subcommand() {
	case "":
		return CmdTUI, args
	case "ask":
		args.Query = strings.Join(parser.Rest(), " ")
		return CmdAsk, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		rest := parser.Rest()
		if len(rest) > 0 {
			args.Subcommand = rest[0]
		}
		if len(rest) > 1 {
			args.ConfigKey = rest[1]
		}
		if len(rest) > 2 {
			args.ConfigVal = strings.Join(rest[2:], " ")
		}
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		// Unknown subcommand: treat the whole line as an ask query
		args.Query = strings.Join(parser.Positional(), " ")
		return CmdAsk, args
	}
}
