package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

type stubExtractor struct {
	cand  llm.Candidate
	ok    bool
	calls int
}

func (s *stubExtractor) ExtractCandidate(_ context.Context, _ string) (llm.Candidate, bool) {
	s.calls++
	return s.cand, s.ok
}

const germanInvoice = "Rechnungsnummer: 12345\nRechnungsdatum 15.03.2024\nTotal zu bezahlen CHF 1616.25"

func TestProcess_ModelPath(t *testing.T) {
	stub := &stubExtractor{ok: true, cand: llm.Candidate{
		"invoice_number": "INV-7",
		"invoice_date":   "2024-03-15",
		"total_amount":   99.9,
		"client_name":    "Muster AG",
		"currency":       "EUR",
	}}
	p := NewProcessor(nil, stub, nil, 0)

	res := p.Process(context.Background(), entity.Document{ID: "doc-1", Title: "a.pdf", Content: germanInvoice})

	assert.Equal(t, constants.MethodModel, res.ExtractionMethod)
	assert.Equal(t, "doc-1", res.DocumentID)
	assert.Equal(t, "INV-7", res.Metadata["invoice_number"])
	assert.Equal(t, 2024, res.Metadata["year"])
	assert.Equal(t, "EUR", res.Metadata["currency"])
	assert.Equal(t, 1.0, res.Metadata["extraction_confidence"])
	assert.Equal(t, "a.pdf", res.Metadata["original_filename"])
	assert.Equal(t, 1, stub.calls)
}

func TestProcess_FailingClientAlwaysFallsBack(t *testing.T) {
	stub := &stubExtractor{ok: false}
	p := NewProcessor(nil, stub, nil, 0)

	docs := []entity.Document{
		{ID: "1", Content: germanInvoice},
		{ID: "2", Content: ""},
		{ID: "3", Content: "Invoice # 77 paid USD 10.00"},
	}
	for _, doc := range docs {
		res := p.Process(context.Background(), doc)
		assert.Equal(t, constants.MethodFallback, res.ExtractionMethod, doc.ID)
	}
	assert.Equal(t, len(docs), stub.calls)
}

func TestProcess_EmptyCandidateFallsBack(t *testing.T) {
	p := NewProcessor(nil, &stubExtractor{ok: true, cand: llm.Candidate{}}, nil, 0)
	res := p.Process(context.Background(), entity.Document{ID: "1", Content: germanInvoice})
	assert.Equal(t, constants.MethodFallback, res.ExtractionMethod)
}

func TestProcess_FallbackFields(t *testing.T) {
	p := NewProcessor(nil, nil, nil, 0)
	res := p.Process(context.Background(), entity.Document{ID: "1", Title: "t", Content: germanInvoice})

	md := res.Metadata
	assert.Equal(t, "12345", md["invoice_number"])
	assert.Equal(t, "2024-03-15", md["date"])
	assert.Equal(t, 2024, md["year"])
	assert.Equal(t, 1616.25, md["amount"])
	assert.Equal(t, "CHF", md["currency"])
	assert.Equal(t, "german", md["language"])
	assert.Equal(t, 0.75, md["extraction_confidence"])
}

func TestProcess_TruncatesStoredContent(t *testing.T) {
	p := NewProcessor(nil, nil, nil, 10)
	content := strings.Repeat("ü", 25)
	res := p.Process(context.Background(), entity.Document{ID: "1", Content: content})

	assert.Equal(t, strings.Repeat("ü", 10), res.Content)
	assert.Equal(t, 25, res.Metadata["content_length"])
}

func TestProcess_MetadataHasNoEmptyValues(t *testing.T) {
	stub := &stubExtractor{ok: true, cand: llm.Candidate{
		"invoice_number":    "1",
		"reference":         "",
		"additional_fields": map[string]any{"note": nil},
	}}
	p := NewProcessor(nil, stub, nil, 0)
	res := p.Process(context.Background(), entity.Document{ID: "1", Content: "x"})

	for k, v := range res.Metadata {
		switch k {
		case "extraction_confidence", "word_count", "content_length":
			continue
		}
		assert.False(t, entity.IsEmpty(v), "key %s is empty", k)
	}
}
