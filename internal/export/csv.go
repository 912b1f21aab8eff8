package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// WriteCSV writes one row per result: document_id, extraction_method, then every
// metadata key found across results.
func WriteCSV(w io.Writer, results []entity.ExtractionResult) error {
	cols := header(results)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	rec := make([]string, len(cols))
	for _, r := range results {
		for i, v := range row(r, cols) {
			rec[i] = cellString(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv row %s: %w", r.DocumentID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
