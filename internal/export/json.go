package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// WriteJSON writes results as an indented JSON array, leaving non-ASCII text unescaped.
func WriteJSON(w io.Writer, results []entity.ExtractionResult) error {
	if results == nil {
		results = []entity.ExtractionResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

// ReadJSON reads a results file written by WriteJSON.
func ReadJSON(r io.Reader) ([]entity.ExtractionResult, error) {
	var results []entity.ExtractionResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}
