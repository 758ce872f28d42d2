// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the @ reference system for attaching documents and
// web pages to a search query.
package mention

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jeranaias/localrag-tui/internal/model"
)

// =============================================================================
// PARSER
// =============================================================================

// tokenPattern matches an @ marker followed by any run of non-whitespace.
// There is no escape for a literal @; everything after the marker up to the
// next whitespace is the reference source.
var tokenPattern = regexp.MustCompile(`@(\S+)`)

// Parse extracts @ references from raw query input.
//
// Each token is removed from the returned text (replaced with nothing, so
// surrounding whitespace survives untouched apart from a final trim) and
// classified: sources starting with "http" become web references, everything
// else is treated as an uploaded document name. Parsing text that contains no
// @ markers returns it unchanged.
func Parse(input string) (string, []model.Reference) {
	matches := tokenPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input, nil
	}

	var refs []model.Reference
	var removals []removal

	for _, match := range matches {
		source := input[match[2]:match[3]]

		kind := model.ReferenceFile
		if strings.HasPrefix(source, "http") {
			kind = model.ReferenceWeb
		}

		refs = append(refs, model.Reference{Kind: kind, Source: source})
		removals = append(removals, removal{match[0], match[1]})
	}

	return removeTokens(input, removals), refs
}

// HasMentions returns true if the input contains an @ marker.
func HasMentions(input string) bool {
	return strings.Contains(input, "@")
}

// =============================================================================
// HELPER TYPES
// =============================================================================

// removal represents a byte range to remove from input text.
type removal struct {
	start, end int
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// removeTokens removes the specified ranges from the input string. Interior
// whitespace is left exactly as typed; only the ends of the final text are
// trimmed.
func removeTokens(input string, removals []removal) string {
	if len(removals) == 0 {
		return input
	}

	// Process from the end so earlier offsets stay valid
	sort.Slice(removals, func(i, j int) bool {
		return removals[i].start > removals[j].start
	})

	result := input
	for _, r := range removals {
		result = result[:r.start] + result[r.end:]
	}

	return strings.TrimSpace(result)
}

// =============================================================================
// ACTIVE TOKEN (PICKER SUPPORT)
// =============================================================================

// ActiveToken returns the partial @ token the cursor is positioned inside or
// immediately after, if any. cursor is a rune index into text. The returned
// token excludes the @ marker and start is the rune index of the marker.
// The document picker uses this to filter its list while the user types.
func ActiveToken(text string, cursor int) (token string, start int, ok bool) {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		return "", 0, false
	}

	// Walk back from the cursor to the nearest @ with no intervening space
	for i := cursor - 1; i >= 0; i-- {
		r := runes[i]
		if r == ' ' || r == '\n' || r == '\t' {
			return "", 0, false
		}
		if r == '@' {
			return string(runes[i+1 : cursor]), i, true
		}
	}

	return "", 0, false
}

// ReplaceActiveToken replaces the partial token at the cursor with the chosen
// source, returning the new text and the rune index just past the insertion.
// Used when the user picks a document from the popup.
func ReplaceActiveToken(text string, cursor int, source string) (string, int) {
	_, start, ok := ActiveToken(text, cursor)
	if !ok {
		return text, cursor
	}

	runes := []rune(text)
	replacement := "@" + source + " "
	out := string(runes[:start]) + replacement + string(runes[cursor:])
	return out, start + len([]rune(replacement))
}

// Highlight returns the input with @ tokens wrapped by the styling function,
// for rendering typed references distinctly in the input line.
func Highlight(input string, styler func(token string) string) string {
	if styler == nil {
		return input
	}
	return tokenPattern.ReplaceAllStringFunc(input, styler)
}
