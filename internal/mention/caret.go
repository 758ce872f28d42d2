// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"github.com/mattn/go-runewidth"
)

// =============================================================================
// CARET GEOMETRY
// =============================================================================

// Metrics describes the rendering surface the input text flows through.
// All values are in terminal cells.
type Metrics struct {
	// WrapWidth is the column count at which text soft-wraps. Zero or
	// negative means no wrapping.
	WrapWidth int
}

// Offset is a caret position relative to the input area origin, in cells.
type Offset struct {
	X int
	Y int
}

// CaretOffset computes where the caret sits after the first cursor runes of
// text, given explicit surface metrics. It is pure geometry: no terminal
// state is consulted, so the picker popup can be anchored in tests and in
// headless rendering alike.
//
// Hard newlines reset the column; soft wraps occur when a rune would not fit
// within WrapWidth. Double-width runes occupy two columns and wrap as a unit.
func CaretOffset(text string, cursor int, m Metrics) Offset {
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	var off Offset
	for _, r := range runes[:cursor] {
		if r == '\n' {
			off.X = 0
			off.Y++
			continue
		}

		w := runewidth.RuneWidth(r)
		if m.WrapWidth > 0 && off.X+w > m.WrapWidth {
			off.X = 0
			off.Y++
		}
		off.X += w
	}

	return off
}
