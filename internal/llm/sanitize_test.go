package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCandidate(t *testing.T) {
	c := Candidate{
		"invoice_number": "  12345 ",
		"due_date":       nil,
		"reference":      "",
		"client_name":    "None",
		"company_name":   "NULL",
		"total_amount":   99.5,
		"additional_fields": map[string]any{
			"iban":  " CH93 0076 ",
			"empty": "  ",
			"gone":  nil,
		},
	}

	dropped := SanitizeCandidate(c, nil)

	assert.Len(t, dropped, 5)
	assert.Equal(t, "12345", c["invoice_number"])
	assert.Equal(t, 99.5, c["total_amount"])
	assert.Equal(t, "None", c["client_name"])
	for _, k := range []string{"due_date", "reference", "company_name"} {
		assert.NotContains(t, c, k)
	}
	extra, ok := c["additional_fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"iban": "CH93 0076"}, extra)
}

func TestPruneCandidate_KeepsWellShapedFields(t *testing.T) {
	c := Candidate{
		"invoice_number":    "12345",
		"total_amount":      1616.25,
		"line_items":        []any{map[string]any{"description": "Internet", "amount": 49.0}},
		"additional_fields": map[string]any{"iban": "CH93"},
		"custom":            map[string]any{"anything": true},
	}

	v, err := PruneCandidate(c)
	require.NoError(t, err)
	assert.False(t, v.HasErrors())
	assert.Len(t, c, 5)
}

func TestPruneCandidate_DropsOnlyWrongShapes(t *testing.T) {
	c := Candidate{
		"invoice_number":    map[string]any{"n": 1},
		"company_name":      []any{"Acme AG"},
		"line_items":        "one item",
		"additional_fields": []any{"x"},
		"total_amount":      1616.25,
		"client_name":       "Muster AG",
	}

	v, err := PruneCandidate(c)
	require.NoError(t, err)

	require.Len(t, v.Errors(), 4)
	assert.Equal(t, "additional_fields", v.Errors()[0].Field)
	assert.Contains(t, v.ErrorMessage(), "line_items does not match schema")
	assert.Equal(t, Candidate{"total_amount": 1616.25, "client_name": "Muster AG"}, c)
}
