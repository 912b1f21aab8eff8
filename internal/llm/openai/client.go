package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractCandidate implements llm.CandidateExtractor. Every failure (transport, status,
// malformed reply) is logged and reported as no candidate so the caller can fall back.
func (c *Client) ExtractCandidate(ctx context.Context, content string) (llm.Candidate, bool) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", *c.cfg.Temperature,
		"text_len", len(content),
		"max_attempts", c.cfg.Retry.MaxAttempts,
	)

	prompt := llm.BuildExtractionPrompt(content, c.cfg.MaxContentChars)
	text, err := c.Complete(ctx, llm.SystemInstruction, prompt)
	if err != nil {
		c.logger.Warn("llm.extract.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, false
	}

	cand, err := llm.ParseCandidate(text)
	if err != nil {
		c.logger.Warn("llm.extract.parse_failed",
			"req_id", rid, "error", err, "content_len", len(text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, false
	}
	v, err := llm.PruneCandidate(cand)
	if err != nil {
		c.logger.Error("llm.extract.schema_unavailable", "req_id", rid, "error", err)
		return nil, false
	}
	if v.HasErrors() {
		c.logger.Warn("llm.extract.schema_pruned",
			"req_id", rid, "dropped", len(v.Errors()), "detail", v.ErrorMessage(),
		)
	}
	llm.SanitizeCandidate(cand, c.logger)

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"invoice_number", cand["invoice_number"],
		"date", cand["invoice_date"],
		"total", cand["total_amount"],
		"fields", len(cand),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return cand, true
}

// Complete sends one chat/completions request under the retry policy and returns the
// text of the first choice. Transport errors and non-200 responses are retried; a 200
// response with an unusable body is not.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": *c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"stop":        []string{llm.StopSequence},
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	var headers map[string]string
	if c.cfg.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	}

	var raw []byte
	err := c.cfg.Retry.Do(ctx, func(attempt int) error {
		var sendErr error
		raw, _, sendErr = llm.SendJSON(ctx, c.http, c.endpoint(), body, headers, c.logger)
		return sendErr
	}, func(attempt int, err error) {
		kind := "transport"
		if errors.Is(err, common.ErrProtocol) {
			kind = "status"
		}
		c.logger.Warn("llm.request.retry",
			"attempt", attempt,
			"max_attempts", c.cfg.Retry.MaxAttempts,
			"kind", kind,
			"error", err,
		)
	})
	if err != nil {
		return "", fmt.Errorf("chat completion after %d attempts: %w", c.cfg.Retry.MaxAttempts, err)
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", common.ErrMalformedOutput, err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", common.ErrMalformedOutput)
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}
