package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vibescout/scoreboard-ocr/internal/dataset"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS frame_scores (
	run_id      TEXT    NOT NULL,
	match_name  TEXT    NOT NULL,
	alliance    TEXT    NOT NULL,
	frame       INTEGER NOT NULL,
	score       BIGINT  NOT NULL,
	exported_at TEXT    NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (match_name, alliance, frame)
);
CREATE INDEX IF NOT EXISTS idx_frame_scores_run ON frame_scores(run_id);
`

// SQLiteSink writes frame scores into a local SQLite database.
type SQLiteSink struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteSink{db: db, path: path}, nil
}

// Name identifies the sink in logs.
func (s *SQLiteSink) Name() string {
	return "sqlite"
}

// Path returns the database file.
func (s *SQLiteSink) Path() string {
	return s.path
}

// Export replaces the rows of every match in d inside one transaction.
func (s *SQLiteSink) Export(ctx context.Context, d *dataset.Dataset, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range d.Keys() {
		if _, err := tx.ExecContext(ctx, `DELETE FROM frame_scores WHERE match_name = ?`, key); err != nil {
			return fmt.Errorf("clear match %s: %w", key, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO frame_scores (run_id, match_name, alliance, frame, score)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range Rows(d) {
		if _, err := stmt.ExecContext(ctx, runID, row.Match, row.Alliance.String(), row.Frame, int(row.Score)); err != nil {
			return fmt.Errorf("insert %s/%s/%d: %w", row.Match, row.Alliance, row.Frame, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Scores returns the exported timeline of one match and alliance.
func (s *SQLiteSink) Scores(ctx context.Context, match string, alliance scoreboard.Alliance) (map[int]scoreboard.Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT frame, score FROM frame_scores
		WHERE match_name = ? AND alliance = ?
		ORDER BY frame
	`, match, alliance.String())
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	out := make(map[int]scoreboard.Reading)
	for rows.Next() {
		var frame, score int
		if err := rows.Scan(&frame, &score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out[frame] = scoreboard.Reading(score)
	}
	return out, rows.Err()
}

// RunID returns the run that last exported match.
func (s *SQLiteSink) RunID(ctx context.Context, match string) (string, error) {
	var runID string
	err := s.db.QueryRowContext(ctx, `SELECT run_id FROM frame_scores WHERE match_name = ? LIMIT 1`, match).Scan(&runID)
	if err != nil {
		return "", fmt.Errorf("query run id: %w", err)
	}
	return runID, nil
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
