// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package histcache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/localrag-tui/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleChats() []model.Chat {
	return []model.Chat{
		{ID: "c-1", Title: "mud weights", Messages: make([]model.Message, 4), LastUpdated: time.Unix(1000, 0)},
		{ID: "c-2", Title: "rig specs", Messages: make([]model.Message, 2), LastUpdated: time.Unix(3000, 0)},
		{ID: "c-3", Title: "cementing basics", Messages: make([]model.Message, 6), LastUpdated: time.Unix(2000, 0)},
	}
}

func TestRefreshAndList(t *testing.T) {
	c := openTestCache(t)

	if err := c.Refresh(sampleChats()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}

	// Most recently updated first
	if got[0].ID != "c-2" || got[1].ID != "c-3" || got[2].ID != "c-1" {
		t.Errorf("wrong order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].MessageCount != 2 {
		t.Errorf("message count = %d", got[0].MessageCount)
	}
}

func TestRefreshReplacesStaleRows(t *testing.T) {
	c := openTestCache(t)

	if err := c.Refresh(sampleChats()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	// Server now only knows one chat
	newer := []model.Chat{{ID: "c-9", Title: "fresh", LastUpdated: time.Unix(5000, 0)}}
	if err := c.Refresh(newer); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	got, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c-9" {
		t.Errorf("stale rows survived: %v", got)
	}
}

func TestLookup(t *testing.T) {
	c := openTestCache(t)
	if err := c.Refresh(sampleChats()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got, err := c.Lookup("RIG")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c-2" {
		t.Errorf("Lookup(RIG) = %v", got)
	}

	// Blank lookup falls back to the full list
	all, err := c.Lookup("  ")
	if err != nil {
		t.Fatalf("Lookup blank: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("blank lookup returned %d rows", len(all))
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := openTestCache(t)
	if err := c.Refresh(sampleChats()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := c.Remove("c-2"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, _ := c.List()
	if len(got) != 2 {
		t.Errorf("expected 2 rows after remove, got %d", len(got))
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ = c.List()
	if len(got) != 0 {
		t.Errorf("expected empty cache, got %d rows", len(got))
	}
}

func TestOpenCreatesParentlessPathError(t *testing.T) {
	// Opening in an existing temp dir always works; reopening the same
	// file must also work (WAL mode persists).
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	c1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c1.Refresh(sampleChats()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	c1.Close()

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()

	got, err := c2.List()
	if err != nil {
		t.Fatalf("List after reopen: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("rows lost across reopen: %d", len(got))
	}
}
