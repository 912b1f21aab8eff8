package core

import (
	"maps"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

// fieldMapping renames model vocabulary to canonical metadata keys.
var fieldMapping = []struct{ from, to string }{
	{"invoice_number", "invoice_number"},
	{"invoice_date", "date"},
	{"due_date", "due_date"},
	{"total_amount", "amount"},
	{"currency", "currency"},
	{"tax_amount", "tax_amount"},
	{"customer_number", "customer_number"},
	{"reference", "reference"},
	{"company_name", "company_name"},
	{"client_name", "client"},
	{"payment_status", "status"},
	{"document_type", "document_type"},
	{"language", "language"},
}

// Normalize maps a model candidate onto canonical metadata. Empty source values are
// skipped, year is derived from date, line_items are copied as-is and the entries of
// additional_fields are lifted to the top level.
//
// The additional_fields merge runs last and can overwrite a canonical key (for example a
// custom "amount") when the model picks a colliding name. That overwrite is accepted.
func Normalize(c llm.Candidate) entity.Metadata {
	md := entity.Metadata{}

	for _, m := range fieldMapping {
		md.Set(m.to, c[m.from])
	}

	if date := md.String("date"); date != "" {
		if year, ok := extract.YearFromDate(date); ok {
			md.Set("year", year)
		}
	}

	md.Set("line_items", c["line_items"])

	if extra, ok := c["additional_fields"].(map[string]any); ok {
		merged := make(map[string]any, len(extra))
		for k, v := range extra {
			if !entity.IsEmpty(v) {
				merged[k] = v
			}
		}
		maps.Copy(md, merged)
	}
	return md
}
