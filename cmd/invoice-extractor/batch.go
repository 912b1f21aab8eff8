package main

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/batch"
	"github.com/joseph-ayodele/invoice-extractor/internal/export"
	"github.com/joseph-ayodele/invoice-extractor/internal/ingest"
)

type batchOptions struct {
	dir          string
	output       string
	format       string
	workers      int
	store        string
	recursive    bool
	progress     bool
	fallbackOnly bool
}

func newBatchCmd(a *app) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every invoice document in a directory",
		Long: `Process every *.json invoice document in a directory and write the results
(document_id, content, metadata, extraction_method) in a ChromaDB-ready JSON file,
or as CSV/XLSX. Documents that fail to load are logged and skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "invoices directory (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <dir>/"+constants.DefaultOutputFile+")")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, csv or xlsx (default from config)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "documents processed in parallel (default from config)")
	cmd.Flags().StringVar(&opts.store, "store", "", "results store DSN, sqlite path or postgres:// URL (default from config)")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "include subdirectories")
	cmd.Flags().BoolVar(&opts.progress, "progress", true, "show a progress bar on stderr")
	cmd.Flags().BoolVar(&opts.fallbackOnly, "fallback-only", false, "skip the completion service and use pattern extraction only")
	return cmd
}

func runBatch(cmd *cobra.Command, a *app, opts batchOptions) error {
	ctx := cmd.Context()
	cfg := a.cfg

	dir := firstNonEmpty(opts.dir, cfg.Directories.InvoicesDir)
	formatName := firstNonEmpty(opts.format, cfg.Output.Format, string(export.FormatJSON))
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = filepath.Join(dir, cfg.Output.DefaultOutputFile)
		if format != export.FormatJSON {
			output = export.SiblingPath(output, format)
		}
	}
	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Processing.Workers
	}

	paths, stats, err := ingest.ScanDirectory(dir, ingest.ScanOptions{
		Recursive:  opts.recursive,
		SkipHidden: true,
		Exclude:    []string{filepath.Base(output), cfg.Output.DefaultOutputFile},
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	a.logger.Info("batch.scan.done", "dir", dir, "found", len(paths), "scanned", stats.Scanned, "skipped", stats.Skipped)

	proc, cleanup := a.processor(ctx, opts.fallbackOnly)
	defer cleanup()

	coordOpts := []batch.Option{batch.WithWorkers(workers)}
	store, err := a.openStore(ctx, firstNonEmpty(opts.store, cfg.Storage.DSN))
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
		coordOpts = append(coordOpts, batch.WithSink(store))
	}
	if opts.progress && len(paths) > 0 {
		bar := newProgressBar(cmd.ErrOrStderr(), len(paths), "extracting")
		coordOpts = append(coordOpts, batch.WithProgress(func(done, _ int) { _ = bar.Set(done) }))
	}

	rep := batch.NewCoordinator(proc, a.logger, coordOpts...).ProcessPaths(ctx, paths)

	if err := export.WriteFile(output, format, rep.Results); err != nil {
		return err
	}

	printBatchSummary(cmd.OutOrStdout(), batch.Summarize(rep.Results), rep, output)
	return ctx.Err()
}

func printBatchSummary(w io.Writer, s batch.Summary, rep batch.Report, output string) {
	_, _ = fmt.Fprintf(w, "Processed %d invoices in %s\n", s.Total, rep.Elapsed.Round(time.Millisecond))
	_, _ = fmt.Fprintf(w, "Saved results to: %s\n", output)
	_, _ = fmt.Fprintf(w, "Extraction methods: model=%d, fallback=%d\n",
		s.ByMethod[constants.MethodModel], s.ByMethod[constants.MethodFallback])

	years := slices.Sorted(maps.Keys(s.Years))
	_, _ = fmt.Fprint(w, "Years:")
	for _, y := range years {
		_, _ = fmt.Fprintf(w, " %d=%d", y, s.Years[y])
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprint(w, "Top clients:")
	for _, c := range s.TopClients {
		_, _ = fmt.Fprintf(w, " %q=%d", c.Client, c.Count)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprint(w, "Currencies:")
	for _, c := range slices.Sorted(maps.Keys(s.Currencies)) {
		_, _ = fmt.Fprintf(w, " %s=%d", c, s.Currencies[c])
	}
	_, _ = fmt.Fprintln(w)

	if len(rep.Failures) > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d documents:\n", len(rep.Failures))
		for _, f := range rep.Failures {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", f.Path, f.Error)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
