package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PGConfig struct {
	ConnStr string
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS gate_history (
    run_id     TEXT PRIMARY KEY,
    stamp      TIMESTAMPTZ NOT NULL,
    base_url   TEXT NOT NULL,
    p95_s      DOUBLE PRECISION NOT NULL,
    p99_s      DOUBLE PRECISION NOT NULL,
    error_rate DOUBLE PRECISION NOT NULL,
    pass       BOOLEAN NOT NULL,
    metrics    JSONB
)`

type PGSink struct {
	pool *pgxpool.Pool
}

func NewPGSink(ctx context.Context, cfg PGConfig) (*PGSink, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create gate_history table: %w", err)
	}

	return &PGSink{pool: pool}, nil
}

func (s *PGSink) Append(ctx context.Context, e Entry) error {
	metricsJSON, err := json.Marshal(e.Metrics)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO gate_history (run_id, stamp, base_url, p95_s, p99_s, error_rate, pass, metrics)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (run_id) DO NOTHING`,
		e.RunID, e.Stamp, e.BaseURL, e.P95S, e.P99S, e.ErrorRate, e.Pass, metricsJSON)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	// trim beyond the cap, oldest first
	_, err = s.pool.Exec(ctx,
		`DELETE FROM gate_history WHERE run_id IN (
		     SELECT run_id FROM gate_history ORDER BY stamp DESC OFFSET $1
		 )`, maxEntries)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

func (s *PGSink) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}

	rows, err := s.pool.Query(ctx,
		`SELECT run_id, stamp::text, base_url, p95_s, p99_s, error_rate, pass, metrics
		 FROM gate_history ORDER BY stamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			metricsJSON []byte
		)
		if err := rows.Scan(&e.RunID, &e.Stamp, &e.BaseURL, &e.P95S, &e.P99S, &e.ErrorRate, &e.Pass, &metricsJSON); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if len(metricsJSON) > 0 {
			if err := json.Unmarshal(metricsJSON, &e.Metrics); err != nil {
				return nil, fmt.Errorf("parse metrics column: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PGSink) Close() {
	s.pool.Close()
}
