// Package batch runs the extraction over many documents and summarizes the outcome.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/ingest"
)

// Processor turns one document into a result.
type Processor interface {
	Process(ctx context.Context, doc entity.Document) entity.ExtractionResult
}

// ResultSink receives every successful result, e.g. a results store.
type ResultSink interface {
	Save(ctx context.Context, res entity.ExtractionResult) error
}

// Loader reads the document stored at path.
type Loader func(path string) (entity.Document, error)

// Failure records a document that was skipped.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report is the outcome of ProcessPaths. Results keep the input order.
type Report struct {
	Results  []entity.ExtractionResult
	Failures []Failure
	Elapsed  time.Duration
}

type Coordinator struct {
	proc     Processor
	logger   *slog.Logger
	load     Loader
	sink     ResultSink
	workers  int
	progress func(done, total int)
}

type Option func(*Coordinator)

// WithWorkers processes up to n documents at once. Results are still reported in input order.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithSink(s ResultSink) Option {
	return func(c *Coordinator) { c.sink = s }
}

func WithLoader(l Loader) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.load = l
		}
	}
}

// WithProgress is called after every document, successful or not.
func WithProgress(fn func(done, total int)) Option {
	return func(c *Coordinator) { c.progress = fn }
}

func NewCoordinator(proc Processor, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		proc:    proc,
		logger:  logger,
		load:    ingest.LoadDocument,
		workers: 1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ProcessPaths loads and processes every path. A document that fails to load or process
// is logged, recorded in Failures and skipped; it never stops the batch. Cancelling ctx
// stops submission of further documents.
func (c *Coordinator) ProcessPaths(ctx context.Context, paths []string) Report {
	start := time.Now()
	c.logger.Info("batch.start", "documents", len(paths), "workers", c.workers)

	results := make([]*entity.ExtractionResult, len(paths))
	errs := make([]error, len(paths))

	var (
		mu   sync.Mutex
		done int
	)
	step := func() {
		if c.progress == nil {
			return
		}
		mu.Lock()
		done++
		n := done
		mu.Unlock()
		c.progress(n, len(paths))
	}

	g := new(errgroup.Group)
	g.SetLimit(c.workers)
	for i, path := range paths {
		if ctx.Err() != nil {
			c.logger.Warn("batch.cancelled", "submitted", i, "documents", len(paths))
			break
		}
		g.Go(func() error {
			res, err := c.ProcessPath(ctx, path)
			if err != nil {
				errs[i] = err
			} else {
				results[i] = &res
			}
			step()
			return nil
		})
	}
	_ = g.Wait()

	var rep Report
	for i, path := range paths {
		switch {
		case results[i] != nil:
			rep.Results = append(rep.Results, *results[i])
		case errs[i] != nil:
			rep.Failures = append(rep.Failures, Failure{Path: path, Error: errs[i].Error()})
		}
	}
	rep.Elapsed = time.Since(start)

	c.logger.Info("batch.done",
		"processed", len(rep.Results),
		"failed", len(rep.Failures),
		"elapsed_ms", rep.Elapsed.Milliseconds(),
	)
	return rep
}

// ProcessPath handles a single document: load, extract, hand to the sink.
func (c *Coordinator) ProcessPath(ctx context.Context, path string) (res entity.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing: %v", r)
			c.logger.Error("batch.document.failed", "path", path, "error", err)
		}
	}()

	doc, err := c.load(path)
	if err != nil {
		c.logger.Error("batch.document.failed", "path", path, "error", err)
		return entity.ExtractionResult{}, err
	}

	res = c.proc.Process(ctx, doc)
	md := res.Metadata
	c.logger.Info("batch.document.ok",
		"path", path,
		"filename", md["original_filename"],
		"date", md["date"],
		"client", md["client"],
		"amount", md["amount"],
		"method", res.ExtractionMethod,
	)

	if c.sink != nil {
		if err := c.sink.Save(ctx, res); err != nil {
			c.logger.Warn("batch.sink.failed", "document_id", res.DocumentID, "error", err)
		}
	}
	return res, nil
}
