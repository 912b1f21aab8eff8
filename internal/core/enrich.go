package core

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
)

// Enrich adds the derived fields shared by both extraction paths. Existing language and
// currency values win over detection.
func Enrich(md entity.Metadata, doc entity.Document) {
	md.Set("original_filename", doc.Title)
	md["word_count"] = len(strings.Fields(doc.Content))
	md["content_length"] = utf8.RuneCountInString(doc.Content)

	if !md.Has("language") {
		md["language"] = DetectLanguage(doc.Content)
	}
	md["extraction_confidence"] = ConfidenceScore(md)
	if !md.Has("currency") {
		md["currency"] = DetectCurrency(doc.Content)
	}
}

// DetectLanguage counts which indicator words appear in content, case-insensitively.
// Ties, including no hits at all, are reported as mixed.
func DetectLanguage(content string) string {
	lower := strings.ToLower(content)
	german := countIndicators(lower, constants.GermanIndicators)
	english := countIndicators(lower, constants.EnglishIndicators)

	switch {
	case german > english:
		return constants.LanguageGerman
	case english > german:
		return constants.LanguageEnglish
	default:
		return constants.LanguageMixed
	}
}

func countIndicators(lower string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(lower, strings.ToLower(ind)) {
			n++
		}
	}
	return n
}

// DetectCurrency returns the first known currency marker in content, or "unknown".
func DetectCurrency(content string) string {
	return extract.ExtractCurrency(content)
}

// ConfidenceScore is the share of key fields present: 0, 0.25, 0.5, 0.75 or 1.
func ConfidenceScore(md entity.Metadata) float64 {
	found := 0
	for _, k := range constants.KeyFields {
		if md.Has(k) {
			found++
		}
	}
	return float64(found) / float64(len(constants.KeyFields))
}
