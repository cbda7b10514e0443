package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timestampLayout is fixed-width so that text order is time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteLog writes interactions to an embedded SQLite database.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog opens (creating if needed) the database at dbPath and runs migrations.
func NewSQLiteLog(dbPath string) (*SQLiteLog, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; the agent is sequential anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	l := &SQLiteLog{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) migrate() error {
	schema := `
	PRAGMA journal_mode=WAL;

	CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		outcome TEXT NOT NULL,
		prompt_version TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp DESC);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append inserts one interaction.
func (l *SQLiteLog) Append(ctx context.Context, in Interaction) error {
	if err := validate(in); err != nil {
		return err
	}
	_, err := l.db.ExecContext(ctx, `
	INSERT INTO interactions (id, session_id, timestamp, query, response, outcome, prompt_version)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID,
		in.SessionID,
		in.Timestamp.UTC().Format(timestampLayout),
		in.Query,
		in.Response,
		string(in.Outcome),
		in.PromptVersion,
	)
	if err != nil {
		return fmt.Errorf("save interaction: %w", err)
	}
	return nil
}

// Recent returns the newest n interactions, newest first.
func (l *SQLiteLog) Recent(ctx context.Context, n int) ([]Interaction, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx, `
	SELECT id, session_id, timestamp, query, response, outcome, prompt_version
	FROM interactions
	ORDER BY timestamp DESC, rowid DESC
	LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var (
			in      Interaction
			ts      string
			outcome string
		)
		if err := rows.Scan(&in.ID, &in.SessionID, &ts, &in.Query, &in.Response, &outcome, &in.PromptVersion); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Outcome = Outcome(outcome)
		if in.Timestamp, err = time.Parse(timestampLayout, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
