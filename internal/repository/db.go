package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS extraction_results (
	document_id           TEXT PRIMARY KEY,
	extraction_method     TEXT NOT NULL,
	content               TEXT NOT NULL,
	metadata              JSONB NOT NULL,
	extraction_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	updated_at            TIMESTAMPTZ NOT NULL
)`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a pgx pool, pings it and makes sure the results table exists.
func OpenPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (ResultRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "driver", "postgres")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database dsn", "error", err)
		return nil, fmt.Errorf("%w: parse dsn: %v", common.ErrStorage, err)
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "invoice-extractor"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: connect: %v", common.ErrStorage, err)
	}
	if err := HealthCheck(dialCtx, pool, 0, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", common.ErrStorage, err)
	}
	if _, err := pool.Exec(dialCtx, postgresSchema); err != nil {
		pool.Close()
		logger.Error("failed to migrate results table", "error", err)
		return nil, fmt.Errorf("%w: migrate: %v", common.ErrStorage, err)
	}

	logger.Info("successfully connected to database")
	return &postgresRepo{pool: pool, logger: logger}, nil
}

// HealthCheck pings the pool to catch DSN issues early.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		return err
	}
	logger.Debug("database ping successful")
	return nil
}

func (r *postgresRepo) Save(ctx context.Context, res entity.ExtractionResult) error {
	rw, err := toRow(res)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO extraction_results (document_id, extraction_method, content, metadata, extraction_confidence, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6)
ON CONFLICT (document_id) DO UPDATE SET
	extraction_method = EXCLUDED.extraction_method,
	content = EXCLUDED.content,
	metadata = EXCLUDED.metadata,
	extraction_confidence = EXCLUDED.extraction_confidence,
	updated_at = EXCLUDED.updated_at`,
		rw.DocumentID, rw.Method, rw.Content, string(rw.Metadata), rw.Confidence, rw.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to save extraction result", "document_id", res.DocumentID, "error", err)
		return fmt.Errorf("%w: save %s: %v", common.ErrStorage, res.DocumentID, err)
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, documentID string) (entity.ExtractionResult, error) {
	var rw row
	err := r.pool.QueryRow(ctx, `
SELECT document_id, extraction_method, content, metadata::text
FROM extraction_results WHERE document_id = $1`, documentID).
		Scan(&rw.DocumentID, &rw.Method, &rw.Content, &rw.Metadata)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.ExtractionResult{}, fmt.Errorf("%w: %s", common.ErrNotFound, documentID)
	}
	if err != nil {
		return entity.ExtractionResult{}, fmt.Errorf("%w: get %s: %v", common.ErrStorage, documentID, err)
	}
	return rw.result()
}

func (r *postgresRepo) List(ctx context.Context) ([]entity.ExtractionResult, error) {
	rows, err := r.pool.Query(ctx, `
SELECT document_id, extraction_method, content, metadata::text
FROM extraction_results ORDER BY document_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var out []entity.ExtractionResult
	for rows.Next() {
		var rw row
		if err := rows.Scan(&rw.DocumentID, &rw.Method, &rw.Content, &rw.Metadata); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", common.ErrStorage, err)
		}
		res, err := rw.result()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStorage, err)
	}
	return out, nil
}

func (r *postgresRepo) Close() error {
	r.logger.Info("closing database connections")
	r.pool.Close()
	return nil
}
