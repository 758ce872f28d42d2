// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package rank

import (
	"testing"

	"github.com/jeranaias/localrag-tui/internal/model"
)

func TestSources_TopTwoByScore(t *testing.T) {
	in := []model.Source{
		{Filename: "a.pdf", Score: 0.2},
		{Filename: "b.pdf", Score: 0.9},
		{Filename: "c.pdf", Score: 0.5},
	}

	got := Sources(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(got))
	}
	if got[0].Filename != "b.pdf" || got[1].Filename != "c.pdf" {
		t.Errorf("wrong order: %s, %s", got[0].Filename, got[1].Filename)
	}
}

func TestSources_StableOnTies(t *testing.T) {
	in := []model.Source{
		{Filename: "first.pdf", Score: 0.5},
		{Filename: "second.pdf", Score: 0.5},
		{Filename: "third.pdf", Score: 0.5},
	}

	got := Sources(in)
	if got[0].Filename != "first.pdf" || got[1].Filename != "second.pdf" {
		t.Errorf("ties must keep input order: %s, %s", got[0].Filename, got[1].Filename)
	}
}

func TestSources_DoesNotMutateInput(t *testing.T) {
	in := []model.Source{
		{Filename: "a.pdf", Score: 0.1},
		{Filename: "b.pdf", Score: 0.9},
	}

	Sources(in)
	if in[0].Filename != "a.pdf" {
		t.Error("input slice was reordered")
	}
}

func TestSources_FewerThanK(t *testing.T) {
	got := Sources([]model.Source{{Filename: "only.pdf", Score: 0.3}})
	if len(got) != 1 {
		t.Fatalf("expected 1 source, got %d", len(got))
	}
	if got := Sources(nil); got != nil {
		t.Errorf("nil input should yield nil, got %v", got)
	}
}

func TestWebSources_TopTwoByScore(t *testing.T) {
	in := []model.WebSource{
		{URL: "https://low", Score: 0.2},
		{URL: "https://high", Score: 0.9},
		{URL: "https://mid", Score: 0.5},
	}

	got := WebSources(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 web sources, got %d", len(got))
	}
	if got[0].URL != "https://high" || got[1].URL != "https://mid" {
		t.Errorf("wrong order: %s, %s", got[0].URL, got[1].URL)
	}
}
