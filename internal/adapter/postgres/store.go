package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
)

// Store persists annual index rows in Postgres, one row per station, year,
// and index family. It implements pipeline.BatchLoader as an optional
// second sink next to the Kafka writer.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore connects a pgx pool and ensures the results schema exists.
func NewStore(ctx context.Context, url string, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &Store{pool: pool, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS station_index_years (
    station_id      TEXT        NOT NULL,
    year            INT         NOT NULL,
    family          TEXT        NOT NULL,
    indices         JSONB       NOT NULL,
    qc_flag         TEXT        NOT NULL,
    baseline_period TEXT        NOT NULL,
    computed_at     TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (station_id, year, family)
)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const upsertRow = `INSERT INTO station_index_years (station_id, year, family, indices, qc_flag, baseline_period, computed_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
ON CONFLICT (station_id, year, family) DO UPDATE
SET indices = EXCLUDED.indices,
    qc_flag = EXCLUDED.qc_flag,
    baseline_period = EXCLUDED.baseline_period,
    computed_at = EXCLUDED.computed_at,
    updated_at = NOW()`

// LoadBatch upserts every annual row carried by the batch. Replays are safe:
// recomputing a station overwrites its previous rows in place.
func (s *Store) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	queued := 0
	for _, e := range events {
		var result domain.StationResult
		if err := json.Unmarshal(e.Value, &result); err != nil {
			return fmt.Errorf("decode result for key %q: %w", e.Key, err)
		}
		n, err := queueResult(batch, result)
		if err != nil {
			return err
		}
		queued += n
	}
	if queued == 0 {
		return nil
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < queued; i++ {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("upsert index rows: %w", err)
		}
	}
	return nil
}

func queueResult(batch *pgx.Batch, r domain.StationResult) (int, error) {
	queued := 0
	for _, row := range r.Rainfall {
		indices, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("encode rainfall row for station %q: %w", r.StationID, err)
		}
		batch.Queue(upsertRow, r.StationID, row.Year, "rainfall", indices, string(row.QCFlag), row.BaselinePeriod, r.ComputedAt)
		queued++
	}
	for _, row := range r.Temperature {
		indices, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("encode temperature row for station %q: %w", r.StationID, err)
		}
		batch.Queue(upsertRow, r.StationID, row.Year, "temperature", indices, string(row.QCFlag), row.BaselinePeriod, r.ComputedAt)
		queued++
	}
	return queued, nil
}

// Ping verifies database connectivity, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
