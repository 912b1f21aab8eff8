package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// Config holds all application configuration
type Config struct {
	LLM         LLMConfig         `yaml:"vllm" json:"vllm"`
	Processing  ProcessingConfig  `yaml:"processing" json:"processing"`
	Quality     QualityConfig     `yaml:"quality" json:"quality"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Storage     StorageConfig     `yaml:"storage" json:"storage"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Directories DirectoriesConfig `yaml:"directories" json:"directories"`
}

// LLMConfig holds completion-service configuration
type LLMConfig struct {
	BaseURL        string  `yaml:"base_url" json:"base_url"`
	APIKey         string  `yaml:"api_key" json:"api_key,omitempty"`
	Model          string  `yaml:"model" json:"model"`
	TimeoutSeconds int     `yaml:"timeout" json:"timeout"`
	MaxRetries     int     `yaml:"max_retries" json:"max_retries"`
	Temperature    float64 `yaml:"temperature" json:"temperature"`
	MaxTokens      int     `yaml:"max_tokens" json:"max_tokens"`
}

// Timeout returns the per-request timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProcessingConfig holds per-document processing limits
type ProcessingConfig struct {
	ContentTruncateLength int `yaml:"content_truncate_length" json:"content_truncate_length"`
	MaxContentForLLM      int `yaml:"max_content_for_llm" json:"max_content_for_llm"`
	Workers               int `yaml:"workers" json:"workers"`
}

// QualityConfig holds result review thresholds
type QualityConfig struct {
	MinConfidenceScore float64 `yaml:"min_confidence_score" json:"min_confidence_score"`
	MaxAmountThreshold float64 `yaml:"max_amount_threshold" json:"max_amount_threshold"`
}

// OutputConfig holds export settings
type OutputConfig struct {
	DefaultOutputFile string `yaml:"default_output_file" json:"default_output_file"`
	Format            string `yaml:"format" json:"format"`
}

// StorageConfig holds the optional results store
type StorageConfig struct {
	DSN string `yaml:"dsn" json:"dsn,omitempty"`
}

// CacheConfig holds the optional candidate cache
type CacheConfig struct {
	RedisAddr  string `yaml:"redis_addr" json:"redis_addr,omitempty"`
	Password   string `yaml:"password" json:"password,omitempty"`
	DB         int    `yaml:"db" json:"db"`
	TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// TTL returns how long cached candidates live.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"log_file" json:"log_file,omitempty"`
}

// DirectoriesConfig holds default locations
type DirectoriesConfig struct {
	InvoicesDir string `yaml:"invoices_dir" json:"invoices_dir"`
	OutputDir   string `yaml:"output_dir" json:"output_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:        "http://localhost:8000/v1",
			Model:          "default",
			TimeoutSeconds: 30,
			MaxRetries:     3,
			Temperature:    0.1,
			MaxTokens:      1000,
		},
		Processing: ProcessingConfig{
			ContentTruncateLength: 2000,
			MaxContentForLLM:      4000,
			Workers:               1,
		},
		Quality: QualityConfig{
			MinConfidenceScore: 0.5,
			MaxAmountThreshold: 100000,
		},
		Output: OutputConfig{
			DefaultOutputFile: constants.DefaultOutputFile,
			Format:            "json",
		},
		Cache: CacheConfig{
			TTLSeconds: 86400,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "json",
		},
		Directories: DirectoriesConfig{
			InvoicesDir: ".",
			OutputDir:   "./output",
		},
	}
}

// configCandidates are probed in order when no config path is given.
func configCandidates() []string {
	paths := []string{
		"config.yaml",
		"config.json",
		"invoice_extractor_config.yaml",
		"invoice_extractor_config.json",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".invoice_extractor", "config.yaml"))
	}
	return append(paths, "/etc/invoice_extractor/config.yaml")
}

// LoadConfig builds the configuration from defaults, an optional config file, an
// optional .env file and environment variables, in that order of precedence.
// An empty path triggers discovery of a config file in the usual locations.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "load "+path, err)
		}
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg.applyEnv()
	return cfg, nil
}

func findConfigFile() string {
	for _, p := range configCandidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, c)
	case ".json":
		var raw map[string]any
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		clean, err := json.Marshal(stripCommentKeys(raw))
		if err != nil {
			return err
		}
		return json.Unmarshal(clean, c)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// stripCommentKeys drops keys beginning with "_", which JSON config files use as comments.
func stripCommentKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if strings.HasPrefix(k, "_") {
				continue
			}
			out[k] = stripCommentKeys(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = stripCommentKeys(t[i])
		}
		return t
	}
	return v
}

func (c *Config) applyEnv() {
	c.LLM.BaseURL = getEnv("VLLM_URL", c.LLM.BaseURL)
	c.LLM.APIKey = getEnv("VLLM_API_KEY", c.LLM.APIKey)
	c.LLM.Model = getEnv("VLLM_MODEL", c.LLM.Model)
	c.LLM.TimeoutSeconds = getEnvAsInt("VLLM_TIMEOUT", c.LLM.TimeoutSeconds)
	c.LLM.MaxRetries = getEnvAsInt("VLLM_MAX_RETRIES", c.LLM.MaxRetries)
	c.LLM.Temperature = getEnvAsFloat64("VLLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("VLLM_MAX_TOKENS", c.LLM.MaxTokens)

	c.Processing.ContentTruncateLength = getEnvAsInt("CONTENT_TRUNCATE_LENGTH", c.Processing.ContentTruncateLength)
	c.Processing.MaxContentForLLM = getEnvAsInt("MAX_CONTENT_FOR_LLM", c.Processing.MaxContentForLLM)
	c.Processing.Workers = getEnvAsInt("BATCH_WORKERS", c.Processing.Workers)

	c.Quality.MinConfidenceScore = getEnvAsFloat64("MIN_CONFIDENCE", c.Quality.MinConfidenceScore)
	c.Quality.MaxAmountThreshold = getEnvAsFloat64("MAX_AMOUNT_THRESHOLD", c.Quality.MaxAmountThreshold)

	c.Output.DefaultOutputFile = getEnv("OUTPUT_FILE", c.Output.DefaultOutputFile)
	c.Directories.InvoicesDir = getEnv("INVOICES_DIR", c.Directories.InvoicesDir)

	c.Storage.DSN = getEnv("STORE_DSN", c.Storage.DSN)
	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.Password = getEnv("REDIS_PASSWORD", c.Cache.Password)
	if ttl := getEnvAsDuration("CACHE_TTL", 0); ttl > 0 {
		c.Cache.TTLSeconds = int(ttl / time.Second)
	}

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate returns every configuration problem found. An empty slice means the
// configuration is usable; callers decide whether issues are fatal.
func (c *Config) Validate() []string {
	v := NewValidator()
	v.Field("vllm.base_url", c.LLM.BaseURL, Required)
	v.Field("vllm.timeout", c.LLM.TimeoutSeconds, Positive)
	v.Field("vllm.max_retries", c.LLM.MaxRetries, Positive)
	v.Field("vllm.max_tokens", c.LLM.MaxTokens, Positive)
	v.Field("processing.content_truncate_length", c.Processing.ContentTruncateLength, Positive)
	v.Field("processing.max_content_for_llm", c.Processing.MaxContentForLLM, Positive)
	v.Field("processing.workers", c.Processing.Workers, Positive)
	v.Field("quality.min_confidence_score", c.Quality.MinConfidenceScore, UnitInterval)
	v.Field("directories.invoices_dir", c.Directories.InvoicesDir, Required)

	issues := make([]string, 0, len(v.Errors()))
	for _, e := range v.Errors() {
		issues = append(issues, e.Error())
	}
	return issues
}
