// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rank selects the sources shown under a finished answer.
//
// Document and web sources are ranked independently and never merged; their
// scores come from different retrieval systems and are not comparable.
package rank

import (
	"sort"

	"github.com/jeranaias/localrag-tui/internal/model"
)

// TopK is how many sources of each kind the panel shows.
const TopK = 2

// Sources returns the top document sources by score descending. The sort is
// stable: exact ties keep their original relative order. The input slice is
// not modified.
func Sources(in []model.Source) []model.Source {
	if len(in) == 0 {
		return nil
	}

	out := make([]model.Source, len(in))
	copy(out, in)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > TopK {
		out = out[:TopK]
	}
	return out
}

// WebSources returns the top web sources by score descending, with the same
// stability and copy semantics as Sources.
func WebSources(in []model.WebSource) []model.WebSource {
	if len(in) == 0 {
		return nil
	}

	out := make([]model.WebSource, len(in))
	copy(out, in)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > TopK {
		out = out[:TopK]
	}
	return out
}
