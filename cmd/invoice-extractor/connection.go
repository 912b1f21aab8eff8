package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// connectionSample is a short German invoice the service should always be able to read.
const connectionSample = `
RECHNUNG

Rechnungsnummer: 2024-001
Rechnungsdatum: 15.03.2024

Kunde: Test GmbH

Leistung: Beratung
Betrag: CHF 1,500.00
Mehrwertsteuer: CHF 116.25
Total: CHF 1,616.25
`

func newTestConnectionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Send a sample invoice to the completion service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Testing completion service at %s\n", a.cfg.LLM.BaseURL)

			cand, ok := a.completionClient().ExtractCandidate(cmd.Context(), connectionSample)
			if !ok {
				_, _ = fmt.Fprintln(w, "Connection failed")
				return errors.New("completion service returned no usable result")
			}

			out, err := json.MarshalIndent(cand, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			_, _ = fmt.Fprintln(w, "Connection successful, test extraction result:")
			_, _ = fmt.Fprintln(w, string(out))
			return nil
		},
	}
}
