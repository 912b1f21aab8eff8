package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

func TestBuildExtractionPrompt_EmbedsVocabulary(t *testing.T) {
	p := BuildExtractionPrompt("Rechnung Nr. 1", 4000)

	for _, attr := range constants.GermanAttributes {
		assert.Contains(t, p, attr)
	}
	for _, attr := range constants.EnglishAttributes {
		assert.Contains(t, p, attr)
	}
	assert.Contains(t, p, "Rechnung Nr. 1")
	assert.Contains(t, p, `"additional_fields"`)
}

func TestBuildExtractionPrompt_TruncatesContent(t *testing.T) {
	content := strings.Repeat("a", 50) + "TAIL"
	p := BuildExtractionPrompt(content, 50)

	assert.Contains(t, p, strings.Repeat("a", 50))
	assert.NotContains(t, p, "TAIL")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "abc", TruncateRunes("abc", 0))
	assert.Equal(t, "Grü", TruncateRunes("Grüezi", 3))
	assert.Equal(t, "€€", TruncateRunes("€€€", 2))
}
