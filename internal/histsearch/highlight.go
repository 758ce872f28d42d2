// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package histsearch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// MATCH HIGHLIGHTING
// =============================================================================

// MatchRange locates the first case-insensitive occurrence of query inside
// content, returning byte offsets into the NFC-normalized content. Both
// strings are normalized first so composed and decomposed accents compare
// equal. ok is false when there is no match.
func MatchRange(content, query string) (start, end int, ok bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, 0, false
	}

	nc := norm.NFC.String(content)
	nq := norm.NFC.String(query)

	idx := strings.Index(strings.ToLower(nc), strings.ToLower(nq))
	if idx < 0 {
		return 0, 0, false
	}
	return idx, idx + len(nq), true
}

// HighlightMatch wraps the first match of query in content using the styling
// function, returning the content unchanged when nothing matches. The
// returned string is NFC-normalized.
func HighlightMatch(content, query string, styler func(string) string) string {
	nc := norm.NFC.String(content)
	if styler == nil {
		return nc
	}

	start, end, ok := MatchRange(content, query)
	if !ok {
		return nc
	}
	return nc[:start] + styler(nc[start:end]) + nc[end:]
}
