// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// PairTurns folds a flat message list into query turns. Pairing is
// positional: a user message at index i pairs with an assistant message at
// i+1. Messages that break the adjacency invariant (a trailing user message
// with no answer, or an assistant message with no preceding user message)
// are dropped rather than rendered as incomplete turns.
//
// isNew is applied to every produced turn. Replaying stored history passes
// false so reloaded turns settle immediately; only a turn appended by a live
// submission animates.
func PairTurns(messages []Message, isNew bool) []QueryTurn {
	var turns []QueryTurn

	for i := 0; i < len(messages); i++ {
		if messages[i].Role != RoleUser {
			continue
		}
		if i+1 >= len(messages) || messages[i+1].Role != RoleAssistant {
			continue
		}

		answer := messages[i+1]
		turns = append(turns, QueryTurn{
			Query: messages[i].Content,
			Response: SearchResponse{
				Answer:     answer.Content,
				Sources:    answer.Sources,
				WebSources: answer.WebSources,
			},
			IsNew: isNew,
		})
		i++ // consume the assistant half
	}

	return turns
}
