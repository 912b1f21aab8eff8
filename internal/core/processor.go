package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

const defaultTruncateLength = 2000

// Processor runs the two-tier extraction for one document: the completion service
// first, the pattern extractor when that yields nothing, then enrichment.
type Processor struct {
	logger         *slog.Logger
	llmExtractor   llm.CandidateExtractor
	fallback       extract.FieldExtractor
	truncateLength int
}

// NewProcessor wires a processor. A nil llmExtractor sends every document down the
// fallback path; a nil fallback uses the pattern extractor.
func NewProcessor(
	logger *slog.Logger,
	llmExtractor llm.CandidateExtractor,
	fallback extract.FieldExtractor,
	truncateLength int,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = extract.NewPatternExtractor()
	}
	if truncateLength <= 0 {
		truncateLength = defaultTruncateLength
	}
	return &Processor{
		logger:         logger,
		llmExtractor:   llmExtractor,
		fallback:       fallback,
		truncateLength: truncateLength,
	}
}

// Process never fails: completion-service problems degrade to the fallback path.
func (p *Processor) Process(ctx context.Context, doc entity.Document) entity.ExtractionResult {
	start := time.Now()

	var (
		md     entity.Metadata
		method constants.ExtractionMethod
	)
	if cand, ok := p.extractCandidate(ctx, doc); ok {
		md = Normalize(cand)
		method = constants.MethodModel
		p.logger.Info("processor.model.ok", "document_id", doc.ID, "fields", len(md))
	} else {
		md = p.fallback.ExtractFields(doc.Content)
		method = constants.MethodFallback
		p.logger.Warn("processor.fallback", "document_id", doc.ID, "fields", len(md))
	}

	Enrich(md, doc)

	p.logger.Info("processor.document.done",
		"document_id", doc.ID,
		"title", doc.Title,
		"method", method,
		"confidence", md["extraction_confidence"],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return entity.ExtractionResult{
		DocumentID:       doc.ID,
		Content:          llm.TruncateRunes(doc.Content, p.truncateLength),
		Metadata:         md,
		ExtractionMethod: method,
	}
}

func (p *Processor) extractCandidate(ctx context.Context, doc entity.Document) (llm.Candidate, bool) {
	if p.llmExtractor == nil {
		return nil, false
	}
	cand, ok := p.llmExtractor.ExtractCandidate(ctx, doc.Content)
	if !ok || len(cand) == 0 {
		return nil, false
	}
	return cand, true
}
