package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// LoadDocument reads one invoice document. Missing id/title/pageContent keys decode as
// empty strings; anything that is not a JSON object is an error.
func LoadDocument(path string) (entity.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return entity.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseDocument(b)
}

// ParseDocument decodes a document from raw JSON.
func ParseDocument(b []byte) (entity.Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return entity.Document{}, fmt.Errorf("%w: decode document: %v", common.ErrInvalidInput, err)
	}
	if raw == nil {
		return entity.Document{}, fmt.Errorf("%w: document is null", common.ErrInvalidInput)
	}

	var doc entity.Document
	for key, dst := range map[string]*string{"id": &doc.ID, "title": &doc.Title, "pageContent": &doc.Content} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		s, err := stringValue(v)
		if err != nil {
			return entity.Document{}, fmt.Errorf("%w: field %s: %v", common.ErrInvalidInput, key, err)
		}
		*dst = s
	}
	return doc, nil
}

// stringValue accepts JSON strings and numbers (some exports use numeric ids) and null.
func stringValue(v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), nil
	}
	var x any
	if err := json.Unmarshal(v, &x); err == nil && x == nil {
		return "", nil
	}
	return "", fmt.Errorf("expected string, got %s", string(v))
}
