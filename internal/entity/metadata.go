package entity

import (
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// Metadata is the canonical metadata record. It is an open map because model-discovered
// custom fields are merged into it next to the canonical ones.
//
// Every key present holds a non-empty value; use Set to keep it that way.
type Metadata map[string]any

// Set stores v under key unless v is empty, in which case key is left untouched.
func (m Metadata) Set(key string, v any) bool {
	if IsEmpty(v) {
		return false
	}
	m[key] = v
	return true
}

// Has reports whether key holds a non-empty value.
func (m Metadata) Has(key string) bool {
	v, ok := m[key]
	return ok && !IsEmpty(v)
}

// String returns the value under key when it is a string.
func (m Metadata) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Float returns the numeric value under key.
func (m Metadata) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// IsEmpty reports whether v carries no information: nil, blank strings, zero numbers,
// false and empty collections.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case float32:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// ExtractionResult is the envelope written for the vector store ingest.
type ExtractionResult struct {
	DocumentID       string                     `json:"document_id"`
	Content          string                     `json:"content"`
	Metadata         Metadata                   `json:"metadata"`
	ExtractionMethod constants.ExtractionMethod `json:"extraction_method"`
}
