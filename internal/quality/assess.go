// Package quality reviews a finished batch for results that need a human look.
package quality

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

const highConfidence = 0.7

// requiredFields must be present for a result to count as complete.
var requiredFields = []string{"date", "amount", "invoice_number"}

type MissingFields struct {
	DocumentID string   `json:"document_id"`
	File       string   `json:"file"`
	Missing    []string `json:"missing_fields"`
}

type Flagged struct {
	DocumentID string  `json:"document_id"`
	File       string  `json:"file"`
	Value      float64 `json:"value"`
}

type Duplicate struct {
	InvoiceNumber string   `json:"invoice_number"`
	Amount        float64  `json:"amount"`
	DocumentIDs   []string `json:"document_ids"`
}

// Assessment is the quality report for a set of results.
type Assessment struct {
	Total              int             `json:"total"`
	ModelExtractions   int             `json:"model_extractions"`
	FallbackExtracted  int             `json:"fallback_extractions"`
	ModelRate          float64         `json:"model_rate"`
	HighConfidence     int             `json:"high_confidence"`
	HighConfidenceRate float64         `json:"high_confidence_rate"`
	MissingKeyFields   []MissingFields `json:"missing_key_fields"`
	LowConfidence      []Flagged       `json:"low_confidence"`
	SuspiciousAmounts  []Flagged       `json:"suspicious_amounts"`
	Duplicates         []Duplicate     `json:"duplicates"`
}

// Issues counts results that were flagged for any reason.
func (a Assessment) Issues() int {
	return len(a.MissingKeyFields) + len(a.LowConfidence) + len(a.SuspiciousAmounts) + len(a.Duplicates)
}

// Assess inspects results against the configured thresholds. A zero threshold disables
// the matching check.
func Assess(results []entity.ExtractionResult, cfg common.QualityConfig) Assessment {
	a := Assessment{Total: len(results)}
	dupes := map[string]*Duplicate{}
	var dupeOrder []string

	for _, r := range results {
		md := r.Metadata
		file := md.String("original_filename")
		if file == "" {
			file = "Unknown"
		}

		if r.ExtractionMethod == constants.MethodModel {
			a.ModelExtractions++
		} else {
			a.FallbackExtracted++
		}

		conf, _ := md.Float("extraction_confidence")
		if conf > highConfidence {
			a.HighConfidence++
		}
		if cfg.MinConfidenceScore > 0 && conf < cfg.MinConfidenceScore {
			a.LowConfidence = append(a.LowConfidence, Flagged{DocumentID: r.DocumentID, File: file, Value: conf})
		}

		var missing []string
		for _, f := range requiredFields {
			if !md.Has(f) {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			a.MissingKeyFields = append(a.MissingKeyFields, MissingFields{DocumentID: r.DocumentID, File: file, Missing: missing})
		}

		amount, hasAmount := md.Float("amount")
		if hasAmount && cfg.MaxAmountThreshold > 0 && amount > cfg.MaxAmountThreshold {
			a.SuspiciousAmounts = append(a.SuspiciousAmounts, Flagged{DocumentID: r.DocumentID, File: file, Value: amount})
		}

		if number := invoiceNumber(md); number != "" && hasAmount {
			key := fmt.Sprintf("%s|%.2f", number, amount)
			d, ok := dupes[key]
			if !ok {
				d = &Duplicate{InvoiceNumber: number, Amount: amount}
				dupes[key] = d
				dupeOrder = append(dupeOrder, key)
			}
			d.DocumentIDs = append(d.DocumentIDs, r.DocumentID)
		}
	}

	for _, key := range dupeOrder {
		if d := dupes[key]; len(d.DocumentIDs) > 1 {
			a.Duplicates = append(a.Duplicates, *d)
		}
	}
	slices.SortStableFunc(a.Duplicates, func(x, y Duplicate) int {
		return cmp.Compare(x.InvoiceNumber, y.InvoiceNumber)
	})

	if a.Total > 0 {
		a.ModelRate = float64(a.ModelExtractions) / float64(a.Total)
		a.HighConfidenceRate = float64(a.HighConfidence) / float64(a.Total)
	}
	return a
}

// invoiceNumber accepts numbers too, since model output does not always quote them.
func invoiceNumber(md entity.Metadata) string {
	switch v := md["invoice_number"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
