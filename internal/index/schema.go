// Package index provides the SQLite-backed read side of the recipe
// catalog: paginated browsing, recipe detail, and exact-token ingredient
// lookup. It is rebuilt from the catalog file and holds no authoritative
// state of its own.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	id           INTEGER PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	instructions TEXT NOT NULL DEFAULT '',
	position     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ingredients (
	recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	token     TEXT NOT NULL,
	UNIQUE(recipe_id, position)
);

CREATE INDEX IF NOT EXISTS idx_ingredients_token ON ingredients(token);
CREATE INDEX IF NOT EXISTS idx_recipes_position ON recipes(position);
`

// DB wraps a sql.DB with catalog index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
