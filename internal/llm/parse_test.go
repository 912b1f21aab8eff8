package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Candidate
		wantErr bool
	}{
		{
			name: "bare object",
			text: `{"invoice_number": "12345", "total_amount": 1616.25}`,
			want: Candidate{"invoice_number": "12345", "total_amount": 1616.25},
		},
		{
			name: "prose around object",
			text: "Here is the data:\n<json>{\"currency\": \"CHF\"}</json>\nHope this helps.",
			want: Candidate{"currency": "CHF"},
		},
		{
			name: "nested objects",
			text: "```json\n{\"additional_fields\": {\"iban\": \"CH93\"}}\n```",
			want: Candidate{"additional_fields": map[string]any{"iban": "CH93"}},
		},
		{name: "unbalanced braces", text: "Sure! {invoice_number: 123", wantErr: true},
		{name: "invalid json", text: "{invoice_number: 123}", wantErr: true},
		{name: "no braces", text: "I could not find anything.", wantErr: true},
		{name: "reversed braces", text: "} nothing {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCandidate(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrMalformedOutput)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
