// Package export writes extraction results as JSON, CSV or XLSX.
package export

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// Format names an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts json, csv or xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

var leadColumns = []string{"document_id", "extraction_method"}

// header returns the lead columns followed by every metadata key, sorted.
func header(results []entity.ExtractionResult) []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, r := range results {
		for k := range r.Metadata {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return append(slices.Clone(leadColumns), keys...)
}

// row renders one result under cols. Missing keys become empty cells.
func row(r entity.ExtractionResult, cols []string) []any {
	out := make([]any, len(cols))
	out[0] = r.DocumentID
	out[1] = string(r.ExtractionMethod)
	for i, c := range cols[len(leadColumns):] {
		v, ok := r.Metadata[c]
		if !ok {
			out[i+len(leadColumns)] = ""
			continue
		}
		out[i+len(leadColumns)] = cellValue(v)
	}
	return out
}

// cellValue keeps scalars and JSON-encodes lists and maps.
func cellValue(v any) any {
	switch t := v.(type) {
	case string, bool, int, int64, float64, float32:
		return t
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}
