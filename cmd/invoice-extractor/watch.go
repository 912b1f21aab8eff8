package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/internal/async"
	"github.com/joseph-ayodele/invoice-extractor/internal/batch"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/export"
	"github.com/joseph-ayodele/invoice-extractor/internal/ingest"
)

type watchOptions struct {
	dir          string
	output       string
	store        string
	workers      int
	initialScan  bool
	debounce     time.Duration
	fallbackOnly bool
}

func newWatchCmd(a *app) *cobra.Command {
	var opts watchOptions
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process invoice documents as they appear in a directory",
		Long: `Watch a directory tree and process every *.json invoice document that is created
or rewritten. Results go to the results store when one is configured; with --output
they are also written to a JSON file when the command stops (Ctrl-C).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, a, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "directory to watch (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write collected results here on exit")
	cmd.Flags().StringVar(&opts.store, "store", "", "results store DSN (default from config)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel workers (default from config)")
	cmd.Flags().BoolVar(&opts.initialScan, "initial-scan", false, "also process documents already present")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "quiet period before a changed file is processed")
	cmd.Flags().BoolVar(&opts.fallbackOnly, "fallback-only", false, "skip the completion service")
	return cmd
}

// collector keeps the latest result per document for the exit-time dump.
type collector struct {
	mu    sync.Mutex
	order []string
	byID  map[string]entity.ExtractionResult
}

func (c *collector) add(res entity.ExtractionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[res.DocumentID]; !ok {
		c.order = append(c.order, res.DocumentID)
	}
	c.byID[res.DocumentID] = res
}

func (c *collector) results() []entity.ExtractionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.ExtractionResult, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func runWatch(cmd *cobra.Command, a *app, opts watchOptions) error {
	ctx := cmd.Context()
	cfg := a.cfg
	dir := firstNonEmpty(opts.dir, cfg.Directories.InvoicesDir)
	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Processing.Workers
	}

	proc, cleanup := a.processor(ctx, opts.fallbackOnly)
	defer cleanup()

	var coordOpts []batch.Option
	store, err := a.openStore(ctx, firstNonEmpty(opts.store, cfg.Storage.DSN))
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
		coordOpts = append(coordOpts, batch.WithSink(store))
	}
	coord := batch.NewCoordinator(proc, a.logger, coordOpts...)

	exclude := []string{cfg.Output.DefaultOutputFile}
	if opts.output != "" {
		exclude = append(exclude, filepath.Base(opts.output))
	}
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: opts.initialScan,
		Debounce:    opts.debounce,
		Exclude:     exclude,
		Logger:      a.logger,
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	col := &collector{byID: map[string]entity.ExtractionResult{}}
	var queue async.Queue = async.NewProcessorQueue(func(ctx context.Context, job async.Job) error {
		res, err := coord.ProcessPath(ctx, job.Path)
		if err != nil {
			return err
		}
		col.add(res)
		return nil
	}, a.logger, async.WithWorkers(workers), async.WithProcessTimeout(processTimeout(a)))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", dir)
	a.logger.Info("watch.start", "dir", dir, "workers", workers)

loop:
	for {
		select {
		case p, ok := <-events:
			if !ok {
				break loop
			}
			if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
				a.logger.Warn("watch.enqueue_failed", "path", p, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.logger.Warn("watch.error", "error", err)
		case <-ctx.Done():
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), processTimeout(a))
	defer cancel()
	queue.Shutdown(shutdownCtx)

	collected := col.results()
	a.logger.Info("watch.stop", "processed", len(collected))
	if opts.output != "" {
		if err := export.WriteFile(opts.output, export.FormatJSON, collected); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d results to %s\n", len(collected), opts.output)
	}
	return nil
}

// processTimeout bounds one document: every attempt times out and pauses once.
func processTimeout(a *app) time.Duration {
	attempts := max(a.cfg.LLM.MaxRetries, 1)
	return time.Duration(attempts)*(a.cfg.LLM.Timeout()+time.Second) + 30*time.Second
}
