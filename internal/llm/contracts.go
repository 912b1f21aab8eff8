package llm

import "context"

// Candidate is the model's structured guess in its own field vocabulary
// (invoice_number, invoice_date, total_amount, client_name, additional_fields, ...).
// Values keep their decoded JSON types.
type Candidate map[string]any

// CandidateExtractor is the interface the processor depends on. ok is false when the
// service could not produce a usable candidate; failures are logged, never returned.
type CandidateExtractor interface {
	ExtractCandidate(ctx context.Context, content string) (c Candidate, ok bool)
}
