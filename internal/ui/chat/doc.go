// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
//
// The view wires three concerns together:
//
//   - a session.Manager that owns the turn list and talks to the backend
//   - a reveal.Renderer that animates the newest answer one rune at a time,
//     holding the source panel back until the text settles
//   - a mention picker that opens while the caret sits inside a partial
//     @-token and splices the chosen document name into the input
//
// Input is disabled while a submission is in flight; Esc settles a running
// animation without touching the answer text.
package chat
