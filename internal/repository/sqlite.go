package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS extraction_results (
	document_id           TEXT PRIMARY KEY,
	extraction_method     TEXT NOT NULL,
	content               TEXT NOT NULL,
	metadata              TEXT NOT NULL,
	extraction_confidence REAL NOT NULL DEFAULT 0,
	updated_at            TIMESTAMP NOT NULL
)`

type sqliteRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) a SQLite database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (ResultRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening results store", "driver", "sqlite", "path", path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("failed to open results store", "error", err)
		return nil, fmt.Errorf("%w: open sqlite: %v", common.ErrStorage, err)
	}
	// modernc connections do not share an in-memory database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		logger.Error("failed to migrate results store", "error", err)
		return nil, fmt.Errorf("%w: migrate sqlite: %v", common.ErrStorage, err)
	}
	return &sqliteRepo{db: db, logger: logger}, nil
}

func (r *sqliteRepo) Save(ctx context.Context, res entity.ExtractionResult) error {
	rw, err := toRow(res)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO extraction_results (document_id, extraction_method, content, metadata, extraction_confidence, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(document_id) DO UPDATE SET
	extraction_method = excluded.extraction_method,
	content = excluded.content,
	metadata = excluded.metadata,
	extraction_confidence = excluded.extraction_confidence,
	updated_at = excluded.updated_at`,
		rw.DocumentID, rw.Method, rw.Content, string(rw.Metadata), rw.Confidence, rw.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to save extraction result", "document_id", res.DocumentID, "error", err)
		return fmt.Errorf("%w: save %s: %v", common.ErrStorage, res.DocumentID, err)
	}
	return nil
}

func (r *sqliteRepo) Get(ctx context.Context, documentID string) (entity.ExtractionResult, error) {
	var rw rowScan
	err := r.db.QueryRowContext(ctx, `
SELECT document_id, extraction_method, content, metadata
FROM extraction_results WHERE document_id = ?`, documentID).
		Scan(&rw.DocumentID, &rw.Method, &rw.Content, &rw.Metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ExtractionResult{}, fmt.Errorf("%w: %s", common.ErrNotFound, documentID)
	}
	if err != nil {
		return entity.ExtractionResult{}, fmt.Errorf("%w: get %s: %v", common.ErrStorage, documentID, err)
	}
	return rw.row().result()
}

func (r *sqliteRepo) List(ctx context.Context) ([]entity.ExtractionResult, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT document_id, extraction_method, content, metadata
FROM extraction_results ORDER BY document_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStorage, err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.ExtractionResult
	for rows.Next() {
		var rw rowScan
		if err := rows.Scan(&rw.DocumentID, &rw.Method, &rw.Content, &rw.Metadata); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", common.ErrStorage, err)
		}
		res, err := rw.row().result()
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

func (r *sqliteRepo) Close() error {
	return r.db.Close()
}

// rowScan holds metadata as text, which is how SQLite returns it.
type rowScan struct {
	DocumentID string
	Method     string
	Content    string
	Metadata   string
}

func (s rowScan) row() row {
	return row{DocumentID: s.DocumentID, Method: s.Method, Content: s.Content, Metadata: []byte(s.Metadata)}
}
