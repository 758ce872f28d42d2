// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package histcache mirrors chat summaries into a local SQLite database.
//
// The mirror is read-through only: every successful GET /chat refreshes it,
// and the history panel reads from it when the backend is unreachable, so
// the chat list stays browsable offline. The server remains the authority;
// the cache is never written from user actions directly.
package histcache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/localrag-tui/internal/model"
)

// schema holds cached chat summaries. Messages are not mirrored; the panel
// only needs titles, counts, and recency.
const schema = `
CREATE TABLE IF NOT EXISTS chats (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	message_count INTEGER NOT NULL DEFAULT 0,
	last_updated  INTEGER NOT NULL DEFAULT 0,
	cached_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chats_last_updated ON chats(last_updated DESC);
`

// Summary is one cached chat row.
type Summary struct {
	ID           string
	Title        string
	MessageCount int
	LastUpdated  time.Time
}

// =============================================================================
// CACHE
// =============================================================================

// Cache is the local chat summary mirror.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history cache: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Refresh replaces the mirror with the authoritative chat list from the
// server. Runs in one transaction so readers never observe a half-replaced
// list.
func (c *Cache) Refresh(chats []model.Chat) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chats"); err != nil {
		return err
	}

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`
		INSERT INTO chats (id, title, message_count, last_updated, cached_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, chat := range chats {
		if _, err := stmt.Exec(chat.ID, chat.Title, len(chat.Messages), chat.LastUpdated.Unix(), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns cached summaries, most recently updated first.
func (c *Cache) List() ([]Summary, error) {
	rows, err := c.db.Query(`
		SELECT id, title, message_count, last_updated
		FROM chats
		ORDER BY last_updated DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// Lookup returns cached summaries whose title contains the query,
// case-insensitively, most recent first. This is the offline fallback for
// the history search panel; online search goes to the server.
func (c *Cache) Lookup(query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.List()
	}

	rows, err := c.db.Query(`
		SELECT id, title, message_count, last_updated
		FROM chats
		WHERE title LIKE ? COLLATE NOCASE
		ORDER BY last_updated DESC
	`, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// Remove drops one chat from the mirror, keeping it consistent after a
// delete without waiting for the next refresh.
func (c *Cache) Remove(id string) error {
	_, err := c.db.Exec("DELETE FROM chats WHERE id = ?", id)
	return err
}

// Clear empties the mirror (after delete-all).
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM chats")
	return err
}

// scanSummaries reads summary rows.
func scanSummaries(rows *sql.Rows) ([]Summary, error) {
	var out []Summary
	for rows.Next() {
		var s Summary
		var updated int64
		if err := rows.Scan(&s.ID, &s.Title, &s.MessageCount, &updated); err != nil {
			return nil, err
		}
		s.LastUpdated = time.Unix(updated, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}
