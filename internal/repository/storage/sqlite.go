package storage

import (
	"context"
	"database/sql"
	"fmt"

	// registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS histories (
	game_id      TEXT PRIMARY KEY,
	started_at   TEXT NOT NULL,
	ended_at     TEXT,
	final_status TEXT
);

CREATE TABLE IF NOT EXISTS history_moves (
	game_id   TEXT    NOT NULL REFERENCES histories(game_id) ON DELETE CASCADE,
	seq       INTEGER NOT NULL,
	player    TEXT    NOT NULL,
	row_index INTEGER NOT NULL,
	col_index INTEGER NOT NULL,
	played_at TEXT    NOT NULL,
	PRIMARY KEY (game_id, seq)
);`

// NewSQLite opens the database at path and creates the history tables.
func NewSQLite(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// sqlite allows a single writer
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	if _, err = conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't create tables: %w", err)
	}

	return conn, nil
}
