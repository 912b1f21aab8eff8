package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		results string
		store   string
		format  string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a results file (or the results store) to CSV, XLSX or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			if store == "" && results == "" {
				results = filepath.Join(a.cfg.Directories.InvoicesDir, a.cfg.Output.DefaultOutputFile)
			}

			var res []entity.ExtractionResult
			switch {
			case store != "":
				repo, err := a.openStore(ctx, store)
				if err != nil {
					return err
				}
				defer func() { _ = repo.Close() }()
				if res, err = repo.List(ctx); err != nil {
					return err
				}
				if output == "" {
					output = "invoices." + string(f)
				}
			default:
				if res, err = export.ReadFile(results); err != nil {
					return fmt.Errorf("load results: %w", err)
				}
				if output == "" {
					output = export.SiblingPath(results, f)
				}
			}

			if filepath.Clean(output) == filepath.Clean(results) {
				return fmt.Errorf("refusing to overwrite the input file %s", results)
			}
			if err := export.WriteFile(output, f, res); err != nil {
				return err
			}
			a.logger.Info("export.ok", "format", f, "rows", len(res), "output", output)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(res), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&results, "results", "", "results JSON file (default <invoices_dir>/<default_output_file>)")
	cmd.Flags().StringVar(&store, "store", "", "read results from this store DSN instead of a file")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, xlsx or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: results path with the new extension)")
	return cmd
}
