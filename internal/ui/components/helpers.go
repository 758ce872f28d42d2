// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the localrag TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wordWrap wraps text at the given display width, breaking on spaces where
// possible. Words wider than the limit are broken mid-word.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(wrapLine(line, width))
	}
	return out.String()
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}

	var out strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)

		// Break overly long words so they never overflow
		for w > width {
			if lineWidth > 0 {
				out.WriteString("\n")
				lineWidth = 0
			}
			head := runewidth.Truncate(word, width, "")
			out.WriteString(head)
			out.WriteString("\n")
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}

		switch {
		case lineWidth == 0:
			out.WriteString(word)
			lineWidth = w
		case lineWidth+1+w <= width:
			out.WriteString(" ")
			out.WriteString(word)
			lineWidth += 1 + w
		default:
			out.WriteString("\n")
			out.WriteString(word)
			lineWidth = w
		}
	}
	return out.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

// minInt returns the smaller of two ints.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
