package llm

// BuildCandidateJSONSchema returns the expected shape of each known field in a model
// reply. Scalar fields accept any JSON scalar since models mix strings and numbers.
// PruneCandidate drops fields that do not fit; unknown keys are always allowed.
func BuildCandidateJSONSchema() map[string]any {
	scalar := map[string]any{"type": []any{"string", "number", "boolean", "null"}}
	props := map[string]any{
		"document_type":     scalar,
		"language":          scalar,
		"invoice_number":    scalar,
		"invoice_date":      scalar,
		"due_date":          scalar,
		"total_amount":      scalar,
		"currency":          scalar,
		"tax_amount":        scalar,
		"customer_number":   scalar,
		"reference":         scalar,
		"company_name":      scalar,
		"client_name":       scalar,
		"payment_status":    scalar,
		"line_items":        map[string]any{"type": []any{"array", "null"}},
		"additional_fields": map[string]any{"type": []any{"object", "null"}},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
	}
}
