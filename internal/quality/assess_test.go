package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

func result(id string, method constants.ExtractionMethod, md entity.Metadata) entity.ExtractionResult {
	return entity.ExtractionResult{DocumentID: id, ExtractionMethod: method, Metadata: md}
}

func TestAssess(t *testing.T) {
	cfg := common.QualityConfig{MinConfidenceScore: 0.5, MaxAmountThreshold: 100000}
	results := []entity.ExtractionResult{
		result("1", constants.MethodModel, entity.Metadata{
			"date": "2024-03-15", "amount": 1616.25, "invoice_number": "12345",
			"extraction_confidence": 1.0, "original_filename": "a.pdf",
		}),
		result("2", constants.MethodModel, entity.Metadata{
			"date": "2024-03-16", "amount": 1616.25, "invoice_number": "12345",
			"extraction_confidence": 0.75,
		}),
		result("3", constants.MethodFallback, entity.Metadata{
			"amount": 250000.0, "extraction_confidence": 0.25, "original_filename": "c.pdf",
		}),
		result("4", constants.MethodFallback, entity.Metadata{
			"date": "2024-01-01", "amount": 10.0, "invoice_number": 77.0,
			"extraction_confidence": 0.5,
		}),
	}

	a := Assess(results, cfg)

	assert.Equal(t, 4, a.Total)
	assert.Equal(t, 2, a.ModelExtractions)
	assert.Equal(t, 2, a.FallbackExtracted)
	assert.Equal(t, 0.5, a.ModelRate)
	assert.Equal(t, 2, a.HighConfidence)

	require.Len(t, a.MissingKeyFields, 1)
	assert.Equal(t, MissingFields{DocumentID: "3", File: "c.pdf", Missing: []string{"date", "invoice_number"}}, a.MissingKeyFields[0])

	require.Len(t, a.LowConfidence, 1)
	assert.Equal(t, "3", a.LowConfidence[0].DocumentID)

	require.Len(t, a.SuspiciousAmounts, 1)
	assert.Equal(t, 250000.0, a.SuspiciousAmounts[0].Value)

	require.Len(t, a.Duplicates, 1)
	assert.Equal(t, []string{"1", "2"}, a.Duplicates[0].DocumentIDs)
	assert.Equal(t, "12345", a.Duplicates[0].InvoiceNumber)

	assert.Equal(t, 4, a.Issues())
}

func TestAssess_Empty(t *testing.T) {
	a := Assess(nil, common.QualityConfig{})
	assert.Equal(t, 0, a.Total)
	assert.Zero(t, a.ModelRate)
	assert.Zero(t, a.Issues())
}

func TestAssess_ZeroThresholdsDisableChecks(t *testing.T) {
	results := []entity.ExtractionResult{
		result("1", constants.MethodFallback, entity.Metadata{"amount": 1e9, "extraction_confidence": 0.0}),
	}
	a := Assess(results, common.QualityConfig{})
	assert.Empty(t, a.SuspiciousAmounts)
	assert.Empty(t, a.LowConfidence)
	assert.Len(t, a.MissingKeyFields, 1)
}
