// Package catalog indexes a poem collection in an in-memory SQLite database
// for search, category listing and per-category word statistics.
package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS poems (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	poem_id     INTEGER NOT NULL DEFAULT 0,
	number      TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	body        TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	page        INTEGER NOT NULL DEFAULT 0,
	date        TEXT NOT NULL DEFAULT '',
	title_lc    TEXT NOT NULL DEFAULT '',
	body_lc     TEXT NOT NULL DEFAULT '',
	category_lc TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_poems_category ON poems(category);

CREATE TABLE IF NOT EXISTS words (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS poem_words (
	poem_id          INTEGER NOT NULL REFERENCES poems(id) ON DELETE CASCADE,
	word_id          INTEGER NOT NULL REFERENCES words(id) ON DELETE CASCADE,
	occurrence_count INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (poem_id, word_id)
);

CREATE INDEX IF NOT EXISTS idx_poem_words_word ON poem_words(word_id);
`

// Open returns a fresh, migrated in-memory catalog. The pool is pinned to a
// single connection: every new ":memory:" connection is a separate database.
func Open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB creates the catalog schema.
func InitDB(db *sql.DB) error {
	for _, s := range strings.Split(migrationsSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
