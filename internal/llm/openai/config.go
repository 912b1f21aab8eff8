package openai

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/internal/llm"
)

const (
	defaultBaseURL   = "http://localhost:8000/v1"
	defaultModel     = "default"
	defaultMaxTokens = 1000
	defaultMaxChars  = 4000

	defaultTemperature = 0.1
)

// Config for the chat/completions client. Works against any OpenAI-compatible
// server (vLLM, llama.cpp, OpenAI itself).
type Config struct {
	BaseURL         string   // default http://localhost:8000/v1
	APIKey          string   // optional; sent as a bearer token when set
	Model           string   // model identifier, default "default"
	Temperature     *float64 // 0..2; nil means 0.1
	MaxTokens       int      // max output tokens
	MaxContentChars int      // document text sent in the prompt, in characters
	Retry           llm.RetryPolicy
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == nil {
		t := defaultTemperature
		cfg.Temperature = &t
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = defaultMaxChars
	}
	cfg.Retry = cfg.Retry.WithDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Retry.Timeout},
		logger: logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// MaxContentChars is how much document text goes into one prompt.
func (c *Client) MaxContentChars() int { return c.cfg.MaxContentChars }

func (c *Client) endpoint() string { return c.cfg.BaseURL + "/chat/completions" }
