package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// ResultRepository persists extraction results keyed by document_id. Saving a document
// twice replaces the earlier result.
type ResultRepository interface {
	Save(ctx context.Context, res entity.ExtractionResult) error
	Get(ctx context.Context, documentID string) (entity.ExtractionResult, error)
	List(ctx context.Context) ([]entity.ExtractionResult, error)
	Close() error
}

// OpenResults picks a backend from the DSN: postgres:// or postgresql:// use Postgres,
// sqlite:// or a plain path (including :memory:) use SQLite.
func OpenResults(ctx context.Context, dsn string, logger *slog.Logger) (ResultRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case strings.TrimSpace(dsn) == "":
		return nil, fmt.Errorf("%w: empty store dsn", common.ErrInvalidInput)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, Config{DSN: dsn}, logger)
	default:
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"), logger)
	}
}

// row is the stored shape shared by both backends.
type row struct {
	DocumentID string
	Method     string
	Content    string
	Metadata   []byte
	Confidence float64
	UpdatedAt  time.Time
}

func toRow(res entity.ExtractionResult) (row, error) {
	md, err := json.Marshal(res.Metadata)
	if err != nil {
		return row{}, fmt.Errorf("encode metadata: %w", err)
	}
	conf, _ := res.Metadata.Float("extraction_confidence")
	return row{
		DocumentID: res.DocumentID,
		Method:     string(res.ExtractionMethod),
		Content:    res.Content,
		Metadata:   md,
		Confidence: conf,
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

func (r row) result() (entity.ExtractionResult, error) {
	var md entity.Metadata
	if err := json.Unmarshal(r.Metadata, &md); err != nil {
		return entity.ExtractionResult{}, fmt.Errorf("%w: decode metadata for %s: %v", common.ErrStorage, r.DocumentID, err)
	}
	return entity.ExtractionResult{
		DocumentID:       r.DocumentID,
		Content:          r.Content,
		Metadata:         md,
		ExtractionMethod: constants.ExtractionMethod(r.Method),
	}, nil
}
