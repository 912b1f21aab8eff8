package extract

import "github.com/joseph-ayodele/invoice-extractor/internal/entity"

// FieldExtractor pulls metadata out of raw invoice text without any external service.
type FieldExtractor interface {
	ExtractFields(content string) entity.Metadata
}
