// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeModes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("dark mode must force IsDark")
	}

	light := NewTheme("light")
	if light.IsDark {
		t.Error("light mode must force IsDark off")
	}

	// auto must not panic and must produce usable styles
	auto := NewTheme("auto")
	if auto == nil {
		t.Fatal("auto theme is nil")
	}
}

func TestThemeStylesRender(t *testing.T) {
	th := NewTheme("dark")

	out := th.HeaderTitle.Render("localrag")
	if !strings.Contains(out, "localrag") {
		t.Errorf("rendered text lost content: %q", out)
	}

	out = th.CredentialWarn.Render("no API key")
	if !strings.Contains(out, "no API key") {
		t.Errorf("rendered warning lost content: %q", out)
	}
}

func TestContentWidthFloor(t *testing.T) {
	th := NewTheme("dark")
	th.SetSize(10, 5)
	if got := th.ContentWidth(); got != 20 {
		t.Errorf("ContentWidth floor = %d, want 20", got)
	}

	th.SetSize(100, 40)
	if got := th.ContentWidth(); got != 96 {
		t.Errorf("ContentWidth = %d, want 96", got)
	}
}
