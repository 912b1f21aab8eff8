package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/internal/ingest"
)

func newSingleCmd(a *app) *cobra.Command {
	var (
		file         string
		fallbackOnly bool
	)
	cmd := &cobra.Command{
		Use:   "single",
		Short: "Extract metadata from one invoice document and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			doc, err := ingest.LoadDocument(file)
			if err != nil {
				return err
			}

			proc, cleanup := a.processor(ctx, fallbackOnly)
			defer cleanup()
			res := proc.Process(ctx, doc)

			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, string(out))
			_, _ = fmt.Fprintf(w, "Extraction method: %s\n", res.ExtractionMethod)
			_, _ = fmt.Fprintf(w, "Confidence score: %v\n", res.Metadata["extraction_confidence"])
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "invoice document (JSON with id, title, pageContent)")
	cmd.Flags().BoolVar(&fallbackOnly, "fallback-only", false, "skip the completion service")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
