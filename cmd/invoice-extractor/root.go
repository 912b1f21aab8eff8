package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/internal/cache"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
	"github.com/joseph-ayodele/invoice-extractor/internal/llm/openai"
	"github.com/joseph-ayodele/invoice-extractor/internal/repository"
)

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	cfg      *common.Config
	logger   *slog.Logger
	closeLog func() error
}

type rootOptions struct {
	configPath string
	vllmURL    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var (
		opts rootOptions
		a    = &app{}
	)

	root := &cobra.Command{
		Use:   "invoice-extractor",
		Short: "Extract invoice metadata for vector-database ingest",
		Long: `invoice-extractor reads invoice documents (JSON records with raw text) and extracts
structured metadata such as invoice number, date, amount, client and currency.

A completion service (any OpenAI-compatible chat/completions endpoint, e.g. vLLM) is
tried first; when it is unavailable or returns unusable output, a deterministic
pattern extractor takes over.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&opts.vllmURL, "vllm-url", "", "completion service base URL (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: DEBUG, INFO, WARNING, ERROR")

	root.AddCommand(
		newBatchCmd(a),
		newSingleCmd(a),
		newTestConnectionCmd(a),
		newValidateCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) init(opts rootOptions) error {
	cfg, err := common.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.vllmURL != "" {
		cfg.LLM.BaseURL = opts.vllmURL
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger, closeLog, err := common.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

// completionClient builds the chat/completions client from config.
func (a *app) completionClient() *openai.Client {
	c := a.cfg.LLM
	return openai.NewClient(openai.Config{
		BaseURL:         c.BaseURL,
		APIKey:          c.APIKey,
		Model:           c.Model,
		Temperature:     &c.Temperature,
		MaxTokens:       c.MaxTokens,
		MaxContentChars: a.cfg.Processing.MaxContentForLLM,
		Retry: llm.RetryPolicy{
			MaxAttempts: c.MaxRetries,
			Timeout:     c.Timeout(),
		},
	}, a.logger)
}

// candidateExtractor returns the completion client, wrapped in the Redis cache when one
// is configured and reachable.
func (a *app) candidateExtractor(ctx context.Context) (llm.CandidateExtractor, func()) {
	client := a.completionClient()
	if a.cfg.Cache.RedisAddr == "" {
		return client, func() {}
	}

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     a.cfg.Cache.RedisAddr,
		Password: a.cfg.Cache.Password,
		DB:       a.cfg.Cache.DB,
		TTL:      a.cfg.Cache.TTL(),
	})
	if err != nil {
		a.logger.Warn("cache.disabled", "addr", a.cfg.Cache.RedisAddr, "error", err)
		return client, func() {}
	}
	a.logger.Info("cache.enabled", "addr", a.cfg.Cache.RedisAddr, "ttl", a.cfg.Cache.TTL())
	return cache.NewCachedExtractor(client, rc, client.Model(), client.MaxContentChars(), a.logger), func() {
		if err := rc.Close(); err != nil {
			a.logger.Warn("cache.close_error", "error", err)
		}
	}
}

// processor wires the two-tier processor. fallbackOnly skips the completion service.
func (a *app) processor(ctx context.Context, fallbackOnly bool) (*core.Processor, func()) {
	if fallbackOnly {
		return core.NewProcessor(a.logger, nil, nil, a.cfg.Processing.ContentTruncateLength), func() {}
	}
	ext, cleanup := a.candidateExtractor(ctx)
	return core.NewProcessor(a.logger, ext, nil, a.cfg.Processing.ContentTruncateLength), cleanup
}

// openStore opens the results store when a DSN is given; a nil store means none.
func (a *app) openStore(ctx context.Context, dsn string) (repository.ResultRepository, error) {
	if dsn == "" {
		return nil, nil
	}
	return repository.OpenResults(ctx, dsn, a.logger)
}
