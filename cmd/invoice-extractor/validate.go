package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/internal/export"
	"github.com/joseph-ayodele/invoice-extractor/internal/quality"
)

const maxListed = 5

func newValidateCmd(a *app) *cobra.Command {
	var (
		results string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Review a results file for missing fields, low confidence and duplicates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := results
			if path == "" {
				path = filepath.Join(a.cfg.Directories.InvoicesDir, a.cfg.Output.DefaultOutputFile)
			}
			res, err := export.ReadFile(path)
			if err != nil {
				return fmt.Errorf("load results: %w", err)
			}

			assessment := quality.Assess(res, a.cfg.Quality)
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(assessment)
			}
			printAssessment(w, path, assessment)
			return nil
		},
	}
	cmd.Flags().StringVar(&results, "results", "", "results file (default <invoices_dir>/<output file>)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the assessment as JSON")
	return cmd
}

func printAssessment(w io.Writer, path string, a quality.Assessment) {
	pct := func(n int) float64 {
		if a.Total == 0 {
			return 0
		}
		return float64(n) / float64(a.Total) * 100
	}

	_, _ = fmt.Fprintf(w, "Validation results for %s\n", path)
	_, _ = fmt.Fprintf(w, "  Total documents:        %d\n", a.Total)
	_, _ = fmt.Fprintf(w, "  Model extractions:      %d (%.1f%%)\n", a.ModelExtractions, pct(a.ModelExtractions))
	_, _ = fmt.Fprintf(w, "  Fallback extractions:   %d (%.1f%%)\n", a.FallbackExtracted, pct(a.FallbackExtracted))
	_, _ = fmt.Fprintf(w, "  High confidence (>70%%): %d (%.1f%%)\n", a.HighConfidence, pct(a.HighConfidence))
	_, _ = fmt.Fprintf(w, "  Missing key fields:     %d\n", len(a.MissingKeyFields))
	_, _ = fmt.Fprintf(w, "  Below min confidence:   %d\n", len(a.LowConfidence))
	_, _ = fmt.Fprintf(w, "  Suspicious amounts:     %d\n", len(a.SuspiciousAmounts))
	_, _ = fmt.Fprintf(w, "  Possible duplicates:    %d\n", len(a.Duplicates))

	if len(a.MissingKeyFields) > 0 {
		_, _ = fmt.Fprintln(w, "\nDocuments with missing key fields:")
		for i, m := range a.MissingKeyFields {
			if i == maxListed {
				_, _ = fmt.Fprintf(w, "  ... and %d more\n", len(a.MissingKeyFields)-maxListed)
				break
			}
			_, _ = fmt.Fprintf(w, "  %s: missing %s\n", m.File, strings.Join(m.Missing, ", "))
		}
	}
	for _, s := range a.SuspiciousAmounts {
		_, _ = fmt.Fprintf(w, "  suspicious amount %.2f in %s\n", s.Value, s.File)
	}
	for _, d := range a.Duplicates {
		_, _ = fmt.Fprintf(w, "  invoice %s (%.2f) appears in %s\n", d.InvoiceNumber, d.Amount, strings.Join(d.DocumentIDs, ", "))
	}
}
