package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

func TestNormalize_RenamesFields(t *testing.T) {
	md := Normalize(llm.Candidate{
		"invoice_number":  "12345",
		"invoice_date":    "2024-03-15",
		"due_date":        "2024-04-15",
		"total_amount":    1616.25,
		"currency":        "CHF",
		"tax_amount":      115.5,
		"customer_number": "C-9",
		"reference":       "REF-1",
		"company_name":    "UPC Schweiz",
		"client_name":     "Muster AG",
		"payment_status":  "pending",
		"document_type":   "invoice",
		"language":        "german",
	})

	assert.Equal(t, entity.Metadata{
		"invoice_number":  "12345",
		"date":            "2024-03-15",
		"year":            2024,
		"due_date":        "2024-04-15",
		"amount":          1616.25,
		"currency":        "CHF",
		"tax_amount":      115.5,
		"customer_number": "C-9",
		"reference":       "REF-1",
		"company_name":    "UPC Schweiz",
		"client":          "Muster AG",
		"status":          "pending",
		"document_type":   "invoice",
		"language":        "german",
	}, md)
}

func TestNormalize_DateDerivesYear(t *testing.T) {
	md := Normalize(llm.Candidate{"invoice_date": "2024-03-15"})
	assert.Equal(t, "2024-03-15", md["date"])
	assert.Equal(t, 2024, md["year"])
}

func TestNormalize_SkipsEmptyValues(t *testing.T) {
	md := Normalize(llm.Candidate{
		"invoice_number": "",
		"total_amount":   0.0,
		"client_name":    nil,
		"line_items":     []any{},
		"invoice_date":   "n/a",
	})

	assert.NotContains(t, md, "invoice_number")
	assert.NotContains(t, md, "amount")
	assert.NotContains(t, md, "client")
	assert.NotContains(t, md, "line_items")
	assert.Equal(t, "n/a", md["date"])
	assert.NotContains(t, md, "year")
}

func TestNormalize_LineItemsAndAdditionalFields(t *testing.T) {
	items := []any{map[string]any{"description": "Internet", "amount": 49.0}}
	md := Normalize(llm.Candidate{
		"line_items": items,
		"additional_fields": map[string]any{
			"iban":  "CH93 0076 2011 6238 5295 7",
			"empty": "",
		},
		"unmapped_key": "ignored",
	})

	assert.Equal(t, items, md["line_items"])
	assert.Equal(t, "CH93 0076 2011 6238 5295 7", md["iban"])
	assert.NotContains(t, md, "empty")
	assert.NotContains(t, md, "unmapped_key")
}

func TestNormalize_AdditionalFieldsOverwriteCanonical(t *testing.T) {
	md := Normalize(llm.Candidate{
		"total_amount":      100.0,
		"additional_fields": map[string]any{"amount": "custom"},
	})
	assert.Equal(t, "custom", md["amount"])
}
