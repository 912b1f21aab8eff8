package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// WriteFile writes results to path in format, creating parent directories.
func WriteFile(path string, format Format, results []entity.ExtractionResult) error {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := WriteJSON(&buf, results); err != nil {
			return common.WrapError(err, "encode json")
		}
	case FormatCSV:
		if err := WriteCSV(&buf, results); err != nil {
			return common.WrapError(err, "encode csv")
		}
	case FormatXLSX:
		b, err := WriteXLSX(results)
		if err != nil {
			return common.WrapError(err, "encode xlsx")
		}
		buf.Write(b)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a JSON results file.
func ReadFile(path string) ([]entity.ExtractionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	res, err := ReadJSON(f)
	return res, common.WrapError(err, path)
}

// SiblingPath swaps the extension of path for format, e.g. results.json -> results.csv.
func SiblingPath(path string, format Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(format)
}
