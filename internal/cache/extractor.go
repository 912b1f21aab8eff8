package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"

	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

// CachedExtractor decorates a CandidateExtractor with a CandidateCache. Only usable
// candidates are stored; cache failures are logged and otherwise ignored.
type CachedExtractor struct {
	next   llm.CandidateExtractor
	cache  CandidateCache
	model    string
	maxChars int
	logger   *slog.Logger
}

// NewCachedExtractor wraps next. model and maxChars must match what next sends, since
// both change the prompt and so the reply.
func NewCachedExtractor(next llm.CandidateExtractor, cache CandidateCache, model string, maxChars int, logger *slog.Logger) *CachedExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedExtractor{next: next, cache: cache, model: model, maxChars: maxChars, logger: logger}
}

// Key derives the cache key for content sent to model with a prompt limit of maxChars.
func Key(model string, maxChars int, content string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(maxChars)))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

func (e *CachedExtractor) ExtractCandidate(ctx context.Context, content string) (llm.Candidate, bool) {
	key := Key(e.model, e.maxChars, content)

	cand, err := e.cache.Get(ctx, key)
	switch {
	case err == nil:
		e.logger.Debug("cache.hit", "key", key[:12])
		return cand, true
	case !errors.Is(err, ErrCacheMiss):
		e.logger.Warn("cache.get_error", "error", err)
	}

	cand, ok := e.next.ExtractCandidate(ctx, content)
	if !ok {
		return nil, false
	}
	if err := e.cache.Set(ctx, key, cand); err != nil {
		e.logger.Warn("cache.set_error", "error", err)
	}
	return cand, true
}
