// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the localrag TUI.
//
// The package exposes a single Theme struct holding every Lip Gloss style
// used by the interface, grouped by component. Colors are defined as
// AdaptiveColor pairs so the same theme renders correctly on light and dark
// terminals; the config's ui.theme setting can pin one or the other.
//
// Usage:
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	fmt.Println(theme.HeaderTitle.Render("localrag"))
package styles
