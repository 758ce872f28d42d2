// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the localrag TUI.
//
// Components here are pure renderers: they hold display state, take a
// *styles.Theme, and return strings from View(). The Bubble Tea models in
// the sibling view packages own the update loops and feed these components.
//
// Components:
//
//   - StatusBar: bottom bar with connection, model, web-search, and
//     credential state
//   - SourcePanel: ranked document and web sources under a finished answer
//   - Picker: @-mention completion popup over the uploaded document list
//   - Spinner: loading indicator for in-flight searches
//   - Markdown / CodeBlock: answer rendering with glamour, chroma fallback
package components
