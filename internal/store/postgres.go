package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vibescout/scoreboard-ocr/internal/dataset"
	"github.com/vibescout/scoreboard-ocr/internal/scoreboard"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS frame_scores (
	run_id      TEXT        NOT NULL,
	match_name  TEXT        NOT NULL,
	alliance    TEXT        NOT NULL,
	frame       INTEGER     NOT NULL,
	score       BIGINT      NOT NULL,
	exported_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (match_name, alliance, frame)
);
ALTER TABLE frame_scores ALTER COLUMN score TYPE BIGINT`

// PostgresSink writes frame scores into PostgreSQL.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url, verifies the connection, and applies the schema.
func OpenPostgres(ctx context.Context, url string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init postgres schema: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

// Name identifies the sink in logs.
func (s *PostgresSink) Name() string {
	return "postgres"
}

// Export replaces the rows of every match in d inside one transaction. Each
// match is inserted as one batch.
func (s *PostgresSink) Export(ctx context.Context, d *dataset.Dataset, runID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows := Rows(d)
	for _, key := range d.Keys() {
		if _, err := tx.Exec(ctx, `DELETE FROM frame_scores WHERE match_name = $1`, key); err != nil {
			return fmt.Errorf("clear match %s: %w", key, err)
		}

		batch := &pgx.Batch{}
		for _, row := range rows {
			if row.Match != key {
				continue
			}
			batch.Queue(`
				INSERT INTO frame_scores (run_id, match_name, alliance, frame, score)
				VALUES ($1, $2, $3, $4, $5)
			`, runID, row.Match, row.Alliance.String(), row.Frame, int64(row.Score))
		}
		if batch.Len() == 0 {
			continue
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert match %s: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Scores returns the exported timeline of one match and alliance.
func (s *PostgresSink) Scores(ctx context.Context, match string, alliance scoreboard.Alliance) (map[int]scoreboard.Reading, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT frame, score FROM frame_scores
		WHERE match_name = $1 AND alliance = $2
		ORDER BY frame
	`, match, alliance.String())
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	out := make(map[int]scoreboard.Reading)
	for rows.Next() {
		var frame int
		var score int64
		if err := rows.Scan(&frame, &score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out[frame] = scoreboard.Reading(score)
	}
	return out, rows.Err()
}

// Close closes the connection pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
